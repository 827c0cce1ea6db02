package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

func newComparer(t *testing.T, threshold int) *CompareService {
	t.Helper()
	comparer, err := NewCompareService(threshold)
	require.NoError(t, err)
	return comparer
}

// TestNewCompareService tests threshold validation
func TestNewCompareService(t *testing.T) {
	t.Run("valid threshold", func(t *testing.T) {
		comparer, err := NewCompareService(80)
		require.NoError(t, err)
		assert.NotNil(t, comparer)
	})

	t.Run("boundary thresholds", func(t *testing.T) {
		_, err := NewCompareService(0)
		assert.NoError(t, err)
		_, err = NewCompareService(100)
		assert.NoError(t, err)
	})

	t.Run("negative threshold rejected", func(t *testing.T) {
		_, err := NewCompareService(-1)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("threshold above 100 rejected", func(t *testing.T) {
		_, err := NewCompareService(101)
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

// TestCompareService_Compare_ExactMatches tests normalization-based matching
func TestCompareService_Compare_ExactMatches(t *testing.T) {
	comparer := newComparer(t, 80)

	tests := []struct {
		name     string
		required []string
		found    []string
	}{
		{
			name:     "identical",
			required: []string{"Project Manager"},
			found:    []string{"Project Manager"},
		},
		{
			name:     "case differs",
			required: []string{"Project Manager"},
			found:    []string{"PROJECT MANAGER"},
		},
		{
			name:     "punctuation differs",
			required: []string{"Sr. Engineer"},
			found:    []string{"Sr Engineer"},
		},
		{
			name:     "whitespace differs",
			required: []string{"Quality  Assurance   Lead"},
			found:    []string{"Quality Assurance Lead"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := comparer.Compare(tt.required, tt.found)
			assert.False(t, report.IsIncomplete)
			assert.Empty(t, report.MissingRoles)
		})
	}
}

// TestCompareService_Compare_FuzzyFallback tests fuzzy matching of near-misses
func TestCompareService_Compare_FuzzyFallback(t *testing.T) {
	comparer := newComparer(t, 80)

	// "Project Manger" is a typo, not an exact normalized match, but it
	// scores well above 80 against "Project Manager".
	report := comparer.Compare(
		[]string{"Project Manager"},
		[]string{"Project Manger", "Accountant"},
	)

	assert.False(t, report.IsIncomplete)
	assert.Empty(t, report.MissingRoles)
}

// TestCompareService_Compare_FuzzyFallbackIgnoresCase tests that a typo'd
// role still matches when the two sides also differ in letter case
func TestCompareService_Compare_FuzzyFallbackIgnoresCase(t *testing.T) {
	comparer := newComparer(t, 80)

	report := comparer.Compare(
		[]string{"DEVELOPER"},
		[]string{"Devloper"},
	)

	assert.False(t, report.IsIncomplete)
	assert.Empty(t, report.MissingRoles)
}

// TestCompareService_Compare_Missing tests missing role detection
func TestCompareService_Compare_Missing(t *testing.T) {
	comparer := newComparer(t, 80)

	report := comparer.Compare(
		[]string{"Security Auditor", "Project Manager", "Data Steward"},
		[]string{"Project Manager"},
	)

	assert.True(t, report.IsIncomplete)
	assert.Equal(t, []string{"Data Steward", "Security Auditor"}, report.MissingRoles)
}

// TestCompareService_Compare_MissingSortedDeduplicated tests output determinism
func TestCompareService_Compare_MissingSortedDeduplicated(t *testing.T) {
	comparer := newComparer(t, 80)

	report := comparer.Compare(
		[]string{"Zookeeper", "Auditor", "Zookeeper", "Auditor"},
		[]string{"Project Manager"},
	)

	assert.True(t, report.IsIncomplete)
	assert.Equal(t, []string{"Auditor", "Zookeeper"}, report.MissingRoles)
}

// TestCompareService_Compare_EmptyInputs tests degenerate inputs
func TestCompareService_Compare_EmptyInputs(t *testing.T) {
	comparer := newComparer(t, 80)

	t.Run("no required roles is complete", func(t *testing.T) {
		report := comparer.Compare(nil, []string{"Project Manager"})
		assert.False(t, report.IsIncomplete)
		assert.Empty(t, report.MissingRoles)
	})

	t.Run("no found roles reports everything missing", func(t *testing.T) {
		report := comparer.Compare([]string{"Auditor", "Clerk"}, nil)
		assert.True(t, report.IsIncomplete)
		assert.Equal(t, []string{"Auditor", "Clerk"}, report.MissingRoles)
	})

	t.Run("both empty is complete", func(t *testing.T) {
		report := comparer.Compare(nil, nil)
		assert.False(t, report.IsIncomplete)
		assert.Empty(t, report.MissingRoles)
	})
}

// TestCompareService_Compare_Invariant tests IsIncomplete tracking MissingRoles
func TestCompareService_Compare_Invariant(t *testing.T) {
	comparer := newComparer(t, 80)

	cases := [][2][]string{
		{{"A", "B"}, {"A"}},
		{{"A"}, {"A"}},
		{{}, {"A"}},
		{{"Security Auditor"}, {"security auditor"}},
	}

	for _, c := range cases {
		report := comparer.Compare(c[0], c[1])
		assert.Equal(t, len(report.MissingRoles) > 0, report.IsIncomplete)
	}
}

// TestCompareService_Compare_Deterministic tests repeat calls agree
func TestCompareService_Compare_Deterministic(t *testing.T) {
	comparer := newComparer(t, 80)

	required := []string{"Warden", "Auditor", "Zookeeper", "Clerk"}
	found := []string{"Auditor"}

	first := comparer.Compare(required, found)
	second := comparer.Compare(required, found)

	assert.Equal(t, first, second)
}

// TestCompareService_Compare_ThresholdBoundaries tests threshold extremes
func TestCompareService_Compare_ThresholdBoundaries(t *testing.T) {
	t.Run("threshold zero matches anything when found is non-empty", func(t *testing.T) {
		comparer := newComparer(t, 0)
		report := comparer.Compare([]string{"Security Auditor"}, []string{"Completely Different"})
		assert.False(t, report.IsIncomplete)
	})

	t.Run("threshold 100 rejects near-misses", func(t *testing.T) {
		comparer := newComparer(t, 100)
		report := comparer.Compare([]string{"Project Manager"}, []string{"Project Manger7"})
		assert.True(t, report.IsIncomplete)
		assert.Equal(t, []string{"Project Manager"}, report.MissingRoles)
	})
}
