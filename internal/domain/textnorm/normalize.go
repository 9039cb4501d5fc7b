// Package textnorm normalizes user queries and dataset questions so both
// sides of a comparison go through the same folding.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize case-folds s, composes it to NFC and collapses runs of
// whitespace into single spaces. Whitespace-only input becomes "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	// A Caser is stateful, so one is built per call.
	folded := cases.Fold().String(norm.NFC.String(s))
	return strings.Join(strings.Fields(folded), " ")
}

// Tokens splits normalized text into words.
func Tokens(s string) []string {
	return strings.Fields(Normalize(s))
}
