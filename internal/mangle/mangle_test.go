package mangle

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangleOperatorSpellings(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"FroidurePin::operator*", "froidurepin__operator_star"},
		{"FroidurePin::operator *", "froidurepin__operator_star"},
		{"BMat8::operator!=", "bmat8__operator_not_eq"},
		{"Transf::operator()", "transf__call_operator"},
		{"BMat8::operator<", "bmat8__operator_less"},
		{"BMat8::operator==", "bmat8__operator_equal_to"},
		{"BMat8::operator>", "bmat8__operator_greater"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Mangle(c.in), "input %q", c.in)
	}
}

// operator<< contains operator< as a prefix; the insertion rule must win.
func TestManglePriorityInsertionBeforeLess(t *testing.T) {
	got := Mangle("BMat8::operator<<")
	assert.Equal(t, "bmat8__insertion_operator", got)
	assert.NotContains(t, got, "operator_less")
}

func TestMangleGenericFallback(t *testing.T) {
	// Each non-word rune becomes one separator, so "::" yields "__".
	assert.Equal(t, "libsemigroups__froidurepin", Mangle("libsemigroups::FroidurePin"))
	assert.Equal(t, "konieczny__cbegin_d_classes", Mangle("Konieczny::cbegin_D_classes"))
	assert.Equal(t, "run_size_t_", Mangle("run(size_t)"))
}

func TestMangleDeterministicAndSafe(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9_]+$`)
	inputs := []string{
		"FroidurePin::operator<<",
		"Konieczny<BMat8>::D_class",
		"action::RightAction",
	}
	for _, in := range inputs {
		first := Mangle(in)
		assert.Equal(t, first, Mangle(in), "repeated calls must agree for %q", in)
		assert.True(t, safe.MatchString(first), "unsafe identifier %q from %q", first, in)
	}
}

// One unit test per table rule, so a reordering or typo is pinned to a rule.
func TestMangleRuleTable(t *testing.T) {
	for i, r := range Rules {
		assert.NotEmpty(t, r.Replacement, "rule %d has no replacement", i)
		assert.NotNil(t, r.Pattern, "rule %d has no pattern", i)
	}
	// The two order-sensitive rules keep their relative position.
	var insertion, less int
	for i, r := range Rules {
		switch r.Replacement {
		case "insertion_operator":
			insertion = i
		case "operator_less":
			less = i
		}
	}
	assert.Less(t, insertion, less, "insertion_operator must precede operator_less")
}
