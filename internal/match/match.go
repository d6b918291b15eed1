// Package match implements the name matching used by the venue and artist search
package match

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher checks names for containing a search term while ignoring case differences
type Matcher struct {
	folded string
}

// New creates a Matcher for the given search term
func New(term string) *Matcher {
	return &Matcher{folded: fold(term)}
}

// Match tells whether the case-folded name contains the case-folded search term anywhere. An empty search term
// matches every name.
func (m *Matcher) Match(name string) bool {
	return strings.Contains(fold(name), m.folded)
}

func fold(s string) string {
	// A caser is not safe for concurrent use - so every call gets its own
	return cases.Fold().String(s)
}
