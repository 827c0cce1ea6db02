// Package rolematch scores string similarity for role reconciliation.
//
// Scores come from a token-sort ratio: both strings are cleansed
// (lower-cased, non-alphanumeric runs collapsed to spaces), tokenized,
// the tokens sorted and rejoined, and the edit-distance ratio taken over
// the sorted forms. Neither word order nor letter case affects the score
// and the function is symmetric in its arguments.
package rolematch

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Score returns a similarity score in [0, 100] between two raw strings.
// 100 means the cleansed token multisets are identical, 0 means nothing
// matches.
func Score(a, b string) int {
	// Options are forceAscii=false, fullProcess=true. The library skips
	// its lower-casing cleanse step unless fullProcess is set, which
	// would make case differences count as edits.
	return fuzzy.TokenSortRatio(a, b, false, true)
}

// Matches reports whether a and b score at or above threshold.
// Matches(a, b, t) == Matches(b, a, t) for all inputs.
func Matches(a, b string, threshold int) bool {
	return Score(a, b) >= threshold
}
