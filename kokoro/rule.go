package kokoro

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Rule rewrites every occurrence of Pattern to Replacement.
type Rule struct {
	Pattern     string
	Replacement string
}

// Table is an ordered set of rules, longest pattern first.
// Rules with equal pattern length keep their declaration order.
type Table struct {
	rules []Rule
}

// NewTable orders rules by descending pattern length (stable) and validates
// that no replacement reintroduces the pattern of itself or of a rule applied
// before it.
//
// Length counts runes, not grapheme clusters: "ʔn\u0329" is three long.
func NewTable(rules ...Rule) (*Table, error) {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Pattern) > utf8.RuneCountInString(sorted[j].Pattern)
	})

	for i, r := range sorted {
		if r.Pattern == "" {
			return nil, fmt.Errorf("rule %d: empty pattern", i)
		}
		for _, prev := range sorted[:i+1] {
			if strings.Contains(r.Replacement, prev.Pattern) {
				return nil, fmt.Errorf("rule %q -> %q: replacement retriggers %q", r.Pattern, r.Replacement, prev.Pattern)
			}
		}
	}
	return &Table{rules: sorted}, nil
}

// MustTable is like NewTable but panics on an invalid table.
func MustTable(rules ...Rule) *Table {
	t, err := NewTable(rules...)
	if err != nil {
		panic("kokoro: " + err.Error())
	}
	return t
}

// Apply runs each rule once, in table order, as a global literal replace.
func (t *Table) Apply(s string) string {
	for _, r := range t.rules {
		s = strings.ReplaceAll(s, r.Pattern, r.Replacement)
	}
	return s
}

// Rules returns a copy of the ordered rules.
func (t *Table) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules.
func (t *Table) Len() int { return len(t.rules) }

// Filter returns the rules for which keep reports true, order preserved.
func (t *Table) Filter(keep func(Rule) bool) *Table {
	var out []Rule
	for _, r := range t.rules {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Table{rules: out}
}
