package contentgraph

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldCase returns the lower-cased form of s for case-insensitive
// comparison. Only case is mapped: "straße" and "strasse" stay distinct.
func FoldCase(s string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Und).String(s)
}

// EqualFold reports whether a and b are equal ignoring case.
func EqualFold(a, b string) bool {
	return FoldCase(a) == FoldCase(b)
}

// ContainsFold reports whether substr occurs in s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(FoldCase(s), FoldCase(substr))
}
