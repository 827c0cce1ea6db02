package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// mockIndexer implements driving.IndexerService for validator tests.
type mockIndexer struct {
	outcome  domain.IndexOutcome
	indexErr error
	clearErr error

	indexedTexts []string
	indexedIDs   []string
	cleared      []string
}

func (m *mockIndexer) Index(_ context.Context, text, documentID string) (domain.IndexOutcome, error) {
	if m.indexErr != nil {
		return domain.IndexOutcome{}, m.indexErr
	}
	m.indexedTexts = append(m.indexedTexts, text)
	m.indexedIDs = append(m.indexedIDs, documentID)
	return m.outcome, nil
}

func (m *mockIndexer) Clear(_ context.Context, documentID string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = append(m.cleared, documentID)
	return nil
}

type validatorFixture struct {
	roleSource *mockRoleSource
	extractor  *mockExtractor
	llm        *mockLLMService
	indexer    *mockIndexer
	svc        *ValidationService
}

func newValidator(t *testing.T) *validatorFixture {
	t.Helper()
	comparer, err := NewCompareService(80)
	require.NoError(t, err)

	f := &validatorFixture{
		roleSource: &mockRoleSource{},
		extractor:  &mockExtractor{},
		llm:        &mockLLMService{},
		indexer: &mockIndexer{outcome: domain.IndexOutcome{
			ChunkCount:   3,
			IndexedCount: 3,
		}},
	}
	f.svc = NewValidationService(f.roleSource, f.extractor, f.llm, f.indexer, comparer)
	return f
}

// TestValidationService_Validate tests the full reconciliation pipeline
func TestValidationService_Validate(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager", "Data Steward", "Project Manager"}
	f.extractor.text = "The Project Manager signs off."
	f.llm.response = "Project Manager, QA Lead"

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", report.DocumentID)
	assert.Equal(t, []string{"Project Manager", "Data Steward"}, report.RequiredRoles,
		"required roles deduplicated, order preserved")
	assert.Equal(t, []string{"Project Manager", "QA Lead"}, report.FoundRoles)
	assert.True(t, report.Comparison.IsIncomplete)
	assert.Equal(t, []string{"Data Steward"}, report.Comparison.MissingRoles)
	assert.Equal(t, 3, report.Indexing.IndexedCount)
	assert.False(t, report.RanAt.IsZero())

	assert.Equal(t, []string{"doc-1"}, f.indexer.cleared, "previous records cleared")
	require.Len(t, f.indexer.indexedTexts, 1)
	assert.Equal(t, "The Project Manager signs off.", f.indexer.indexedTexts[0])
	assert.Equal(t, []string{"doc-1"}, f.indexer.indexedIDs)
}

// TestValidationService_Validate_Complete tests the all-roles-present case
func TestValidationService_Validate_Complete(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager", "QA Lead"}
	f.extractor.text = "Both roles appear."
	f.llm.response = "QA Lead, Project Manager, Extra Role"

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.NoError(t, err)
	assert.False(t, report.Comparison.IsIncomplete)
	assert.Empty(t, report.Comparison.MissingRoles)
}

// TestValidationService_Validate_ExtractionPrompt tests the prompt sent to the LLM
func TestValidationService_Validate_ExtractionPrompt(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"

	_, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")
	require.NoError(t, err)

	require.Len(t, f.llm.prompts, 1)
	assert.Equal(t, defaultRoleExtractionPrompt+"\n\nDocument Content:\ndocument body", f.llm.prompts[0])
}

// TestValidationService_Validate_CustomPrompt tests PromptStore overrides
func TestValidationService_Validate_CustomPrompt(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"
	f.svc.SetPromptStore(&mockPromptStore{prompts: map[string]string{
		driven.PromptRoleExtraction: "CUSTOM EXTRACTION",
	}})

	_, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")
	require.NoError(t, err)

	require.Len(t, f.llm.prompts, 1)
	assert.Equal(t, "CUSTOM EXTRACTION\n\nDocument Content:\ndocument body", f.llm.prompts[0])
}

// TestValidationService_Validate_RoleSourceFails tests the definitions failure path
func TestValidationService_Validate_RoleSourceFails(t *testing.T) {
	f := newValidator(t)
	f.roleSource.err = errors.New("malformed XML")

	_, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract required roles")
	assert.Empty(t, f.indexer.indexedTexts, "pipeline stops before indexing")
}

// TestValidationService_Validate_ExtractorFails tests the document failure path
func TestValidationService_Validate_ExtractorFails(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.err = errors.New("unreadable PDF")

	_, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract document text")
	assert.Empty(t, f.indexer.indexedTexts)
}

// TestValidationService_Validate_IndexFails tests the indexing failure path
func TestValidationService_Validate_IndexFails(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.indexer.indexErr = errors.New("quota exceeded")

	_, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index document")
	assert.Empty(t, f.llm.prompts, "no role extraction after a failed ingest")
}

// TestValidationService_Validate_ClearFailureIsNonFatal tests stale-record cleanup tolerance
func TestValidationService_Validate_ClearFailureIsNonFatal(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"
	f.indexer.clearErr = errors.New("backend unavailable")

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.NoError(t, err)
	assert.False(t, report.Comparison.IsIncomplete)
	require.Len(t, f.indexer.indexedTexts, 1, "indexing proceeds despite the failed clear")
}

// TestValidationService_Validate_LLMDegrades tests role extraction degradation
func TestValidationService_Validate_LLMDegrades(t *testing.T) {
	t.Run("generation error", func(t *testing.T) {
		f := newValidator(t)
		f.roleSource.roles = []string{"Project Manager"}
		f.extractor.text = "document body"
		f.llm.generateErr = errors.New("rate limited")

		report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

		require.NoError(t, err, "extraction failure degrades to an empty role list")
		assert.Empty(t, report.FoundRoles)
		assert.True(t, report.Comparison.IsIncomplete)
		assert.Equal(t, []string{"Project Manager"}, report.Comparison.MissingRoles)
	})

	t.Run("literal None reply", func(t *testing.T) {
		f := newValidator(t)
		f.roleSource.roles = []string{"Project Manager"}
		f.extractor.text = "document body"
		f.llm.response = "None"

		report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

		require.NoError(t, err)
		assert.Empty(t, report.FoundRoles)
		assert.True(t, report.Comparison.IsIncomplete)
	})

	t.Run("empty document text skips the LLM", func(t *testing.T) {
		f := newValidator(t)
		f.roleSource.roles = []string{"Project Manager"}
		f.extractor.text = "   \n  "

		report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

		require.NoError(t, err)
		assert.Empty(t, f.llm.prompts)
		assert.Empty(t, report.FoundRoles)
	})
}

// TestValidationService_Validate_NoRequiredRoles tests an empty definitions file
func TestValidationService_Validate_NoRequiredRoles(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = nil
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.NoError(t, err)
	assert.Empty(t, report.RequiredRoles)
	assert.False(t, report.Comparison.IsIncomplete, "nothing required means nothing missing")
}

// TestValidationService_Validate_RecordsHistory tests validation run persistence
func TestValidationService_Validate_RecordsHistory(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"
	history := &mockHistoryStore{}
	f.svc.SetHistoryStore(history)

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")
	require.NoError(t, err)

	require.Len(t, history.validations, 1)
	assert.Equal(t, report.DocumentID, history.validations[0].DocumentID)
	assert.Equal(t, report.Comparison, history.validations[0].Comparison)
}

// TestValidationService_Validate_HistoryFailureIsNonFatal tests store error tolerance
func TestValidationService_Validate_HistoryFailureIsNonFatal(t *testing.T) {
	f := newValidator(t)
	f.roleSource.roles = []string{"Project Manager"}
	f.extractor.text = "document body"
	f.llm.response = "Project Manager"
	f.svc.SetHistoryStore(&mockHistoryStore{saveErr: errors.New("disk full")})

	report, err := f.svc.Validate(context.Background(), "roles.xml", "doc.pdf", "doc-1")

	require.NoError(t, err)
	assert.False(t, report.Comparison.IsIncomplete)
}

// TestParseRoleList tests the comma-separated reply parser
func TestParseRoleList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "simple list",
			raw:  "Project Manager, QA Lead, Data Steward",
			want: []string{"Project Manager", "QA Lead", "Data Steward"},
		},
		{
			name: "whitespace trimmed",
			raw:  "  Project Manager ,QA Lead  ",
			want: []string{"Project Manager", "QA Lead"},
		},
		{
			name: "empty segments dropped",
			raw:  "Project Manager,, ,QA Lead,",
			want: []string{"Project Manager", "QA Lead"},
		},
		{
			name: "duplicates removed",
			raw:  "QA Lead, Project Manager, QA Lead",
			want: []string{"QA Lead", "Project Manager"},
		},
		{
			name: "single role",
			raw:  "Project Manager",
			want: []string{"Project Manager"},
		},
		{
			name: "none sentinel",
			raw:  "None",
			want: nil,
		},
		{
			name: "none sentinel lowercase",
			raw:  "none",
			want: nil,
		},
		{
			name: "none sentinel shouting",
			raw:  "NONE",
			want: nil,
		},
		{
			name: "empty reply",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace reply",
			raw:  "  \n ",
			want: nil,
		},
		{
			name: "only separators",
			raw:  ", ,,",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseRoleList(tt.raw))
		})
	}
}
