// Package symboldb reads the per-type XML symbol databases produced by the
// external extraction tool. Records are consumed as-is; this package does
// not validate the extractor's output beyond well-formedness.
package symboldb

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/refgen/internal/errors"
)

// SymbolRecord is one extracted symbol.
type SymbolRecord struct {
	Prot  string `xml:"prot,attr"`
	Name  string `xml:"name"`  // unqualified
	Scope string `xml:"scope"` // enclosing scope, e.g. libsemigroups::BMat8
	Kind  string `xml:"kind"`  // function, variable, ...
}

// Public reports whether the symbol has public visibility.
func (r SymbolRecord) Public() bool { return r.Prot == "public" }

// Qualified returns the scope-qualified symbol name.
func (r SymbolRecord) Qualified() string { return r.Scope + "::" + r.Name }

// baseName converts a qualified type name into the extractor's file naming
// scheme: "::" becomes "_1_1" and every uppercase letter X becomes _x.
func baseName(typeName string) string {
	s := strings.ReplaceAll(typeName, "::", "_1_1")
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FileCandidates returns the database paths that may hold typeName's
// records, in probe order. The extractor writes class<name>.xml for classes
// and struct<name>.xml for structs; the spec does not say which, so both
// are tried.
func FileCandidates(dir, typeName string) []string {
	base := baseName(typeName)
	return []string{
		filepath.Join(dir, "class"+base+".xml"),
		filepath.Join(dir, "struct"+base+".xml"),
	}
}

// Parse decodes every <member> record in the document, at any depth.
func Parse(data []byte, source string) ([]SymbolRecord, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []SymbolRecord
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.SymbolDBParseError(source, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "member" {
			continue
		}
		var rec SymbolRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return nil, errors.SymbolDBParseError(source, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadForType loads the symbol records for typeName from dir. A missing
// database file is reported via errors.SymbolDBMissing (warning severity);
// callers are expected to skip coverage for that type, not abort.
func LoadForType(dir, typeName string) ([]SymbolRecord, string, error) {
	for _, path := range FileCandidates(dir, typeName) {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, path, errors.SymbolDBParseError(path, err)
		}
		recs, perr := Parse(data, path)
		return recs, path, perr
	}
	return nil, "", errors.SymbolDBMissing(typeName)
}
