// Package normalize canonicalizes free-text entity names for matching.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

var stripper = strings.NewReplacer("-", "", ":", "", "'", "", ",", "", ".", "")

// Name strips punctuation, case-folds and collapses whitespace runs.
// Punctuation is removed, not replaced, so "AK-74" and "ak74" are equal.
func Name(text string) string {
	s := stripper.Replace(text)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Equal reports whether two names refer to the same entity.
func Equal(a, b string) bool {
	return Name(a) == Name(b)
}
