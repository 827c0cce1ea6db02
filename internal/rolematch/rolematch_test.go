package rolematch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScore tests token-sort similarity scoring
func TestScore(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{
			name: "identical strings",
			a:    "Project Manager",
			b:    "Project Manager",
			want: 100,
		},
		{
			name: "word order is ignored",
			a:    "Manager Project",
			b:    "Project Manager",
			want: 100,
		},
		{
			name: "case is ignored",
			a:    "PROJECT MANAGER",
			b:    "project manager",
			want: 100,
		},
		{
			name: "punctuation is cleansed",
			a:    "Project-Manager",
			b:    "project manager",
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.a, tt.b))
		})
	}
}

// TestScore_Range tests that scores stay within [0, 100]
func TestScore_Range(t *testing.T) {
	pairs := [][2]string{
		{"Security Auditor", "Data Entry Clerk"},
		{"Project Manager", "Project Manger"},
		{"QA Lead", "Quality Assurance Lead"},
		{"x", "completely different role name"},
	}
	for _, p := range pairs {
		score := Score(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, score, 100, "%q vs %q", p[0], p[1])
	}
}

// TestScore_Symmetric tests that argument order never changes the score
func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Project Manager", "Project Manger"},
		{"Security Auditor", "Auditor"},
		{"QA Lead", "Quality Assurance Lead"},
		{"Scrum Master", "Data Scientist"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

// TestMatches tests threshold application
func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		threshold int
		want      bool
	}{
		{
			name:      "typo passes default threshold",
			a:         "Project Manager",
			b:         "Project Manger",
			threshold: 80,
			want:      true,
		},
		{
			name:      "case-differing typo passes default threshold",
			a:         "DEVELOPER",
			b:         "Devloper",
			threshold: 80,
			want:      true,
		},
		{
			name:      "unrelated roles fail default threshold",
			a:         "Security Auditor",
			b:         "Data Entry Clerk",
			threshold: 80,
			want:      false,
		},
		{
			name:      "identical passes threshold 100",
			a:         "Approver",
			b:         "Approver",
			threshold: 100,
			want:      true,
		},
		{
			name:      "typo fails threshold 100",
			a:         "Project Manager",
			b:         "Project Manger",
			threshold: 100,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.a, tt.b, tt.threshold))
			assert.Equal(t, tt.want, Matches(tt.b, tt.a, tt.threshold))
		})
	}
}
