package domain

import "time"

// ComparisonReport is the deterministic outcome of reconciling a required
// role set against a found role set.
//
// Invariant: IsIncomplete == (len(MissingRoles) > 0).
type ComparisonReport struct {
	// IsIncomplete is true when at least one required role was not
	// matched, exactly or fuzzily, by any found role.
	IsIncomplete bool

	// MissingRoles lists the unmatched required roles by their original
	// (unnormalized) spelling, deduplicated and sorted lexicographically.
	MissingRoles []string
}

// Complete reports whether every required role was satisfied.
func (r ComparisonReport) Complete() bool {
	return !r.IsIncomplete
}

// ValidationReport is the result of a full validation run: required roles
// extracted from the definitions file, found roles extracted from the
// document, and their reconciliation.
type ValidationReport struct {
	// DocumentID is the identity the document was indexed under.
	DocumentID string

	// RequiredRoles are the roles declared in the definitions file,
	// deduplicated, in extraction order.
	RequiredRoles []string

	// FoundRoles are the roles the LLM extracted from the document,
	// deduplicated, in extraction order.
	FoundRoles []string

	// Comparison is the reconciliation of the two sets.
	Comparison ComparisonReport

	// Indexing reports what the ingest stored.
	Indexing IndexOutcome

	// RanAt is when the validation completed.
	RanAt time.Time
}

// Exchange is one question/answer turn from the document chat.
type Exchange struct {
	// ID is assigned by the history store.
	ID int64

	// Question is the user's question verbatim.
	Question string

	// Answer is the generated answer, or a sentinel message when
	// retrieval degraded.
	Answer string

	// AskedAt is when the question was answered.
	AskedAt time.Time
}
