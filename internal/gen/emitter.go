package gen

import (
	"fmt"
	"sort"
	"strings"

	"git.home.luguber.info/inful/refgen/internal/mangle"
	"git.home.luguber.info/inful/refgen/internal/spec"
)

// Emitter assembles artifact text. The directive blocks it writes are
// consumed by the external renderer; nothing here produces final markup.
type Emitter struct {
	Project string // :project: option on every directive
	Header  string // provenance header prepended to every artifact
}

// HeaderComment builds the standard provenance header. copyright is the
// holder line from config, e.g. "2019, J. D. Mitchell"; it may be empty.
func HeaderComment(copyright string) string {
	var b strings.Builder
	b.WriteString(".. ")
	if copyright != "" {
		b.WriteString("Copyright (c) " + copyright + "\n\n   ")
	}
	b.WriteString("This file was auto-generated by refgen, do not edit.\n")
	return b.String()
}

// SymbolArtifactName returns the filename for one entry's page.
func SymbolArtifactName(ts *spec.TypeSpec, e spec.FunctionEntry) string {
	return mangle.Mangle(ts.Name+"::"+e.Name) + ".rst"
}

// OverviewArtifactName returns the filename for the type overview page.
func OverviewArtifactName(ts *spec.TypeSpec) string {
	return mangle.Mangle(ts.Name) + ".rst"
}

// SymbolPage renders the artifact for a single entry: header, title from the
// raw symbol name, and the directive naming kind, owning type and symbol.
func (em *Emitter) SymbolPage(ts *spec.TypeSpec, e spec.FunctionEntry) string {
	var b strings.Builder
	b.WriteString(em.Header)
	b.WriteString(title(e.Name, '='))
	b.WriteString(em.directive(e.Kind, ts.Name+"::"+e.Name))
	return b.String()
}

// OverviewPage renders the type overview: header, unqualified title, the
// type-level directive, then every visible section with a toctree stub and
// cross-reference lines sorted by mangled identifier.
func (em *Emitter) OverviewPage(ts *spec.TypeSpec) string {
	var b strings.Builder
	b.WriteString(em.Header)
	b.WriteString(title(ts.Unqualified(), '='))
	b.WriteString(em.directive(ts.Kind, ts.Name))

	for _, sec := range ts.Sections {
		if sec.Hidden() {
			continue
		}
		b.WriteString(title(sec.Name, '-'))
		b.WriteString("\n.. toctree::\n   :maxdepth: 2\n\n")

		refs := make([]string, 0, len(sec.Entries))
		for _, e := range sec.Entries {
			refs = append(refs, mangle.Mangle(ts.Name+"::"+e.Name))
		}
		sort.Strings(refs)
		for _, ref := range refs {
			b.WriteString("   " + ref + "\n")
		}
	}
	return b.String()
}

func (em *Emitter) directive(kind, target string) string {
	return fmt.Sprintf("\n.. doxygen%s:: %s\n   :project: %s\n", kind, target, em.Project)
}

func title(text string, underline byte) string {
	return "\n" + text + "\n" + strings.Repeat(string(underline), len(text)) + "\n"
}
