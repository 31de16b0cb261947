package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refgen/internal/spec"
)

func testEmitter() *Emitter {
	return &Emitter{
		Project: "libsemigroups",
		Header:  HeaderComment("2019, J. D. Mitchell"),
	}
}

func bmat8Spec(t *testing.T) *spec.TypeSpec {
	t.Helper()
	doc := `
libsemigroups::BMat8:
  - _kind: class
  - Constructors:
      - operator<<
      - BMat8
  - _internal:
      - run
`
	ts, err := spec.Load([]byte(doc), "bmat8.yml")
	require.NoError(t, err)
	return ts
}

func TestHeaderComment(t *testing.T) {
	assert.Equal(t,
		".. Copyright (c) 2019, J. D. Mitchell\n\n   This file was auto-generated by refgen, do not edit.\n",
		HeaderComment("2019, J. D. Mitchell"))
	assert.Equal(t,
		".. This file was auto-generated by refgen, do not edit.\n",
		HeaderComment(""))
}

func TestSymbolPage(t *testing.T) {
	ts := bmat8Spec(t)
	got := testEmitter().SymbolPage(ts, spec.FunctionEntry{Kind: "function", Name: "to_int"})

	want := HeaderComment("2019, J. D. Mitchell") +
		"\nto_int\n======\n" +
		"\n.. doxygenfunction:: libsemigroups::BMat8::to_int\n   :project: libsemigroups\n"
	assert.Equal(t, want, got)
}

func TestSymbolPageTitleUsesRawName(t *testing.T) {
	ts := bmat8Spec(t)
	got := testEmitter().SymbolPage(ts, spec.FunctionEntry{Kind: "function", Name: "operator<<"})
	assert.Contains(t, got, "\noperator<<\n==========\n")
	assert.Contains(t, got, ".. doxygenfunction:: libsemigroups::BMat8::operator<<")
}

func TestOverviewPage(t *testing.T) {
	ts := bmat8Spec(t)
	got := testEmitter().OverviewPage(ts)

	want := HeaderComment("2019, J. D. Mitchell") +
		"\nBMat8\n=====\n" +
		"\n.. doxygenclass:: libsemigroups::BMat8\n   :project: libsemigroups\n" +
		"\nConstructors\n------------\n" +
		"\n.. toctree::\n   :maxdepth: 2\n\n" +
		"   libsemigroups__bmat8__bmat8\n" +
		"   libsemigroups__bmat8__insertion_operator\n"
	assert.Equal(t, want, got)
}

// Cross-reference lines sort by mangled identifier, not declaration order:
// operator<< is declared first but lands second.
func TestOverviewOrdering(t *testing.T) {
	got := testEmitter().OverviewPage(bmat8Spec(t))
	assert.Less(t,
		indexOf(t, got, "libsemigroups__bmat8__bmat8"),
		indexOf(t, got, "libsemigroups__bmat8__insertion_operator"))
}

func TestOverviewHidesMarkedSections(t *testing.T) {
	got := testEmitter().OverviewPage(bmat8Spec(t))
	assert.NotContains(t, got, "_internal")
	assert.NotContains(t, got, "run")
}

func TestOverviewStructKind(t *testing.T) {
	ts, err := spec.Load([]byte("ns::Pair:\n  - _kind: struct\n"), "pair.yml")
	require.NoError(t, err)
	got := testEmitter().OverviewPage(ts)
	assert.Contains(t, got, ".. doxygenstruct:: ns::Pair")
}

func TestArtifactNames(t *testing.T) {
	ts := bmat8Spec(t)
	assert.Equal(t, "libsemigroups__bmat8.rst", OverviewArtifactName(ts))
	assert.Equal(t, "libsemigroups__bmat8__insertion_operator.rst",
		SymbolArtifactName(ts, spec.FunctionEntry{Kind: "function", Name: "operator<<"}))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	i := strings.Index(s, sub)
	require.GreaterOrEqual(t, i, 0, "%q not found", sub)
	return i
}
