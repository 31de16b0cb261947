// Package mangle turns qualified C++ symbol spellings, operator overloads
// included, into stable lowercase identifiers that are safe as filenames.
package mangle

import (
	"regexp"

	"golang.org/x/text/cases"
)

// Rule is one special-spelling substitution.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules is the ordered special-spelling table. Order is load-bearing:
// operator<< must be tried before operator<, since the latter matches a
// prefix of the former. Every rule substitutes all occurrences.
var Rules = []Rule{
	{regexp.MustCompile(`operator\s*\*`), "operator_star"},
	{regexp.MustCompile(`operator!=`), "operator_not_eq"},
	{regexp.MustCompile(`operator\(\)`), "call_operator"},
	{regexp.MustCompile(`operator<<`), "insertion_operator"},
	{regexp.MustCompile(`operator<`), "operator_less"},
	{regexp.MustCompile(`operator==`), "operator_equal_to"},
	{regexp.MustCompile(`operator>`), "operator_greater"},
}

var nonWord = regexp.MustCompile(`\W`)

var fold = cases.Fold()

// Mangle converts a qualified symbol spelling into its canonical identifier.
// Deterministic and pure: special spellings are substituted in Rules order,
// every remaining non-word rune becomes an underscore, and the result is
// case-folded to lowercase. Two distinct spellings may mangle to the same
// identifier; collision handling is the caller's concern.
func Mangle(qualified string) string {
	out := qualified
	for _, r := range Rules {
		out = r.Pattern.ReplaceAllString(out, r.Replacement)
	}
	out = nonWord.ReplaceAllString(out, "_")
	return fold.String(out)
}
