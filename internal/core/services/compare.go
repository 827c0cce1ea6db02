package services

import (
	"fmt"
	"sort"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
	"github.com/valigence-labs/valigence-cli/internal/logger"
	"github.com/valigence-labs/valigence-cli/internal/rolematch"
)

// Ensure CompareService implements the interface.
var _ driving.CompareService = (*CompareService)(nil)

// CompareService reconciles a required role set against a found role set.
// Exact matches on normalized forms win first; anything left falls back to
// fuzzy similarity over the original strings.
type CompareService struct {
	threshold int
}

// NewCompareService creates a comparer with the given fuzzy threshold.
// The threshold must lie within [0, 100].
func NewCompareService(threshold int) (*CompareService, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: fuzzy threshold must be within 0-100, got %d", domain.ErrInvalidConfig, threshold)
	}
	return &CompareService{threshold: threshold}, nil
}

// Compare reports which required roles have no exact or fuzzy match among
// the found roles. Missing roles keep their original spelling and come
// back deduplicated and sorted for deterministic output.
func (s *CompareService) Compare(requiredRoles, foundRoles []string) domain.ComparisonReport {
	logger.Section("Role Comparison")
	logger.Debug("Required roles: %d, found roles: %d", len(requiredRoles), len(foundRoles))

	foundNormalized := make(map[string]struct{}, len(foundRoles))
	for _, role := range foundRoles {
		foundNormalized[domain.NormalizeRole(role)] = struct{}{}
	}

	missingSet := make(map[string]struct{})
	for _, required := range requiredRoles {
		if _, ok := foundNormalized[domain.NormalizeRole(required)]; ok {
			continue
		}

		// Fuzzy fallback over the original strings. The first found role
		// at or above the threshold satisfies the requirement.
		matched := false
		for _, found := range foundRoles {
			if rolematch.Matches(required, found, s.threshold) {
				logger.Debug("Fuzzy match: %q ~ %q (threshold %d)", required, found, s.threshold)
				matched = true
				break
			}
		}
		if !matched {
			missingSet[required] = struct{}{}
		}
	}

	missing := make([]string, 0, len(missingSet))
	for role := range missingSet {
		missing = append(missing, role)
	}
	sort.Strings(missing)

	if len(missing) > 0 {
		logger.Warn("Missing roles: %v", missing)
	} else {
		logger.Info("All required roles accounted for")
	}

	return domain.ComparisonReport{
		IsIncomplete: len(missing) > 0,
		MissingRoles: missing,
	}
}
