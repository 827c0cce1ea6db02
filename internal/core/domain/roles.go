package domain

import (
	"strings"
	"unicode"
)

// NormalizeRole canonicalizes a role name for exact-match comparison.
// Two role strings a human would consider identical normalize to the same
// value: letters are lower-cased, digits kept, punctuation treated as a
// word break, and whitespace runs collapsed to single spaces.
//
// The function is total (never fails) and idempotent; empty or
// all-punctuation input normalizes to the empty string.
func NormalizeRole(role string) string {
	var b strings.Builder
	b.Grow(len(role))
	for _, r := range role {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// UniqueRoles deduplicates a role list preserving first-seen order.
// Comparison is by the original string, case-sensitive.
func UniqueRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
