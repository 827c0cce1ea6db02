package driving

import "github.com/valigence-labs/valigence-cli/internal/core/domain"

// CompareService reconciles a required role set against a found role set.
type CompareService interface {
	// Compare reports which required roles have no exact or fuzzy match
	// among the found roles. Deterministic: equal inputs produce equal
	// reports.
	Compare(requiredRoles, foundRoles []string) domain.ComparisonReport
}
