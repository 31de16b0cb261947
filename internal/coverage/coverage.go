// Package coverage diffs the symbols a spec documents against the public
// symbols the extraction tool found, per type. Gaps are report material,
// never run failures.
package coverage

import (
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/refgen/internal/spec"
	"git.home.luguber.info/inful/refgen/internal/symboldb"
	"git.home.luguber.info/inful/refgen/internal/util/sets"
)

// ExcludeFunc decides whether a public symbol record is out of coverage
// scope for the named type. typeName is the type's unqualified name.
type ExcludeFunc func(rec symboldb.SymbolRecord, typeName string) bool

// DefaultExclude skips symbols whose unqualified name begins with a colon,
// with a tilde (destructors), or with an uppercase letter different from the
// type's own name. The uppercase rule is a heuristic for nested types; it
// can over- and under-exclude, which is why the predicate is replaceable.
func DefaultExclude(rec symboldb.SymbolRecord, typeName string) bool {
	r, _ := utf8.DecodeRuneInString(rec.Name)
	switch {
	case rec.Name == "":
		return true
	case r == ':' || r == '~':
		return true
	case unicode.IsUpper(r) && rec.Name != typeName:
		return true
	}
	return false
}

// Checker cross-references one spec document at a time against the symbol
// database directory.
type Checker struct {
	DBDir   string
	Exclude ExcludeFunc
}

// NewChecker returns a Checker with the default exclusion predicate.
func NewChecker(dbDir string) *Checker {
	return &Checker{DBDir: dbDir, Exclude: DefaultExclude}
}

// Report is the coverage result for one type.
type Report struct {
	DBFile  string
	Missing []string // public, documentable, but absent from the spec; sorted
	Unknown []string // documented in the spec but absent from the database; sorted
}

// Check loads typeName's public symbols and diffs them against the spec's
// documented set. A missing database file surfaces as the SymbolDBMissing
// error; the caller warns and skips this type.
func (c *Checker) Check(ts *spec.TypeSpec) (*Report, error) {
	recs, dbFile, err := symboldb.LoadForType(c.DBDir, ts.Name)
	if err != nil {
		return nil, err
	}

	exclude := c.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	expected := sets.New[string]()
	for _, rec := range recs {
		if !rec.Public() || exclude(rec, ts.Unqualified()) {
			continue
		}
		expected.Add(rec.Qualified())
	}

	documented := sets.New(ts.DocumentedSymbols()...)

	return &Report{
		DBFile:  dbFile,
		Missing: sets.SortedStrings(expected.Diff(documented)),
		Unknown: sets.SortedStrings(documented.Diff(expected)),
	}, nil
}
