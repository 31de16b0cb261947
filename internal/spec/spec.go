// Package spec parses per-type YAML spec documents into an ordered
// documentation tree. Section and entry order is part of the contract, so
// parsing goes through yaml.Node rather than map unmarshalling.
package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/refgen/internal/errors"
)

// Marker prefixes hidden sections and meta-sections.
const Marker = "_"

// KindSection is the reserved meta-section selecting the type-level
// documentation kind (class vs struct).
const KindSection = "_kind"

// DefaultEntryKind is assumed for bare entry names.
const DefaultEntryKind = "function"

// DefaultTypeKind is assumed when a spec carries no _kind meta-section.
const DefaultTypeKind = "class"

// FunctionEntry is one documented symbol: a doxygen kind plus the raw
// (unmangled) symbol name as spelled in the spec document.
type FunctionEntry struct {
	Kind string
	Name string
}

// Section is a named, ordered group of entries.
type Section struct {
	Name    string
	Entries []FunctionEntry
}

// Hidden reports whether the section is excluded from the overview's table
// of contents. Hidden sections still produce per-symbol pages and count as
// documented for coverage.
func (s Section) Hidden() bool { return strings.HasPrefix(s.Name, Marker) }

// TypeSpec is the in-memory documentation tree for one type.
type TypeSpec struct {
	Name     string // fully qualified, e.g. libsemigroups::FroidurePin
	Kind     string // class or struct, from the _kind meta-section
	Sections []Section
	Source   string // spec document path, for diagnostics
}

// Unqualified returns the type name without its enclosing scope.
func (t *TypeSpec) Unqualified() string {
	if i := strings.LastIndex(t.Name, "::"); i >= 0 {
		return t.Name[i+2:]
	}
	return t.Name
}

// Entries returns every entry across all sections, hidden ones included,
// in declaration order.
func (t *TypeSpec) Entries() []FunctionEntry {
	var out []FunctionEntry
	for _, s := range t.Sections {
		out = append(out, s.Entries...)
	}
	return out
}

// DocumentedSymbols returns the qualified names this spec documents, with
// any parameter-list suffix stripped, so "run(size_t)" documents
// "Type::run". Used by the coverage checker.
func (t *TypeSpec) DocumentedSymbols() []string {
	var out []string
	for _, e := range t.Entries() {
		name := e.Name
		if i := strings.Index(name, "("); i >= 0 {
			name = name[:i]
		}
		out = append(out, t.Name+"::"+name)
	}
	return out
}

// Load parses one spec document. The document root must be a mapping with
// exactly one key, the qualified type name; its value is a sequence of
// single-key section mappings, or null.
func Load(data []byte, source string) (*TypeSpec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.SpecReadError(source, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, errors.MalformedSpec(source, "document is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || len(root.Content) != 2 {
		return nil, errors.MalformedSpec(source, "root must contain exactly one type key")
	}

	ts := &TypeSpec{
		Name:   root.Content[0].Value,
		Kind:   DefaultTypeKind,
		Source: source,
	}

	body := root.Content[1]
	if isNull(body) {
		return ts, nil
	}
	if body.Kind != yaml.SequenceNode {
		return nil, errors.MalformedSpec(source, "type body must be a sequence of sections")
	}

	for _, item := range body.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, errors.MalformedSpec(source, "section entry is not a single-key mapping")
		}
		name, value := item.Content[0].Value, item.Content[1]

		if name == KindSection {
			if value.Kind != yaml.ScalarNode || value.Value == "" {
				return nil, errors.MalformedSpec(source, "_kind must be a non-empty scalar")
			}
			ts.Kind = value.Value
			continue
		}

		sec := Section{Name: name}
		if !isNull(value) {
			if value.Kind != yaml.SequenceNode {
				return nil, errors.MalformedSpec(source,
					fmt.Sprintf("section %q must be a sequence or null", name))
			}
			for _, ent := range value.Content {
				entry, err := parseEntry(ent, source)
				if err != nil {
					return nil, err
				}
				sec.Entries = append(sec.Entries, entry)
			}
		}
		ts.Sections = append(ts.Sections, sec)
	}
	return ts, nil
}

func parseEntry(n *yaml.Node, source string) (FunctionEntry, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return FunctionEntry{Kind: DefaultEntryKind, Name: n.Value}, nil
	case yaml.SequenceNode:
		if len(n.Content) != 2 {
			return FunctionEntry{}, errors.MalformedSpec(source,
				fmt.Sprintf("entry pair must have exactly two elements, got %d", len(n.Content)))
		}
		kind, name := n.Content[0], n.Content[1]
		if kind.Kind != yaml.ScalarNode || name.Kind != yaml.ScalarNode {
			return FunctionEntry{}, errors.MalformedSpec(source, "entry pair elements must be scalars")
		}
		return FunctionEntry{Kind: kind.Value, Name: name.Value}, nil
	default:
		return FunctionEntry{}, errors.MalformedSpec(source, "entry must be a name or a [kind, name] pair")
	}
}

func isNull(n *yaml.Node) bool {
	return n.Tag == "!!null" || (n.Kind == yaml.ScalarNode && n.Value == "" && n.Tag != "!!str")
}

// LoadFile parses the spec document at path.
func LoadFile(path string) (*TypeSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.SpecReadError(path, err)
	}
	return Load(data, path)
}

// ListDir returns the spec document paths in dir in lexical order, skipping
// dotfiles and anything that is not a .yml/.yaml file.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		switch filepath.Ext(name) {
		case ".yml", ".yaml":
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
