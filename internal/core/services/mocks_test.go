package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// --- Mock implementations shared across service tests ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	dims      int
	failOn    map[string]bool // inputs containing any key fail
	emptyOn   map[string]bool // inputs containing any key return an empty vector
	calls     []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	for needle := range m.failOn {
		if strings.Contains(text, needle) {
			return nil, fmt.Errorf("embedding rejected")
		}
	}
	for needle := range m.emptyOn {
		if strings.Contains(text, needle) {
			return []float32{}, nil
		}
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	vec := make([]float32, m.Dimensions())
	for i := range vec {
		vec[i] = 0.1
	}
	return vec, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 768
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embedder" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	readyErr     error
	upsertErr    error
	queryErr     error
	deleteErr    error
	deleteAllErr error
	matches      []domain.QueryMatch

	readyCalls  int
	upserted    [][]domain.VectorRecord
	queries     []mockQuery
	deletes     []map[string]string
	deleteAlls  int
	closeCalled bool
}

type mockQuery struct {
	vector []float32
	topK   int
	filter map[string]string
}

func (m *mockVectorIndex) EnsureReady(_ context.Context) error {
	m.readyCalls++
	return m.readyErr
}

func (m *mockVectorIndex) Upsert(_ context.Context, records []domain.VectorRecord) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.upserted = append(m.upserted, records)
	return len(records), nil
}

func (m *mockVectorIndex) Query(_ context.Context, vector []float32, topK int, filter map[string]string) ([]domain.QueryMatch, error) {
	m.queries = append(m.queries, mockQuery{vector: vector, topK: topK, filter: filter})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK < len(m.matches) {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockVectorIndex) Delete(_ context.Context, filter map[string]string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, filter)
	return nil
}

func (m *mockVectorIndex) DeleteAll(_ context.Context) error {
	if m.deleteAllErr != nil {
		return m.deleteAllErr
	}
	m.deleteAlls++
	return nil
}

func (m *mockVectorIndex) Name() string { return "mock-index" }

func (m *mockVectorIndex) Close() error {
	m.closeCalled = true
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response    string
	generateErr error
	prompts     []string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockRoleSource implements driven.RoleSource for testing.
type mockRoleSource struct {
	roles []string
	err   error
}

func (m *mockRoleSource) Roles(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.roles, nil
}

// mockExtractor implements driven.DocumentExtractor for testing.
type mockExtractor struct {
	text string
	err  error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

func (m *mockExtractor) Supports(_ string) bool { return true }

// mockHistoryStore implements driven.HistoryStore for testing.
type mockHistoryStore struct {
	exchanges   []domain.Exchange
	validations []domain.ValidationReport
	saveErr     error
	listErr     error
	purgeErr    error
	purged      int
	listLimits  []int
}

func (m *mockHistoryStore) SaveExchange(_ context.Context, exchange domain.Exchange) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.exchanges = append(m.exchanges, exchange)
	return nil
}

func (m *mockHistoryStore) RecentExchanges(_ context.Context, limit int) ([]domain.Exchange, error) {
	m.listLimits = append(m.listLimits, limit)
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < len(m.exchanges) {
		return m.exchanges[:limit], nil
	}
	return m.exchanges, nil
}

func (m *mockHistoryStore) SaveValidation(_ context.Context, report domain.ValidationReport) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.validations = append(m.validations, report)
	return nil
}

func (m *mockHistoryStore) RecentValidations(_ context.Context, limit int) ([]domain.ValidationReport, error) {
	m.listLimits = append(m.listLimits, limit)
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < len(m.validations) {
		return m.validations[:limit], nil
	}
	return m.validations, nil
}

func (m *mockHistoryStore) Purge(_ context.Context) error {
	if m.purgeErr != nil {
		return m.purgeErr
	}
	m.purged++
	return nil
}

func (m *mockHistoryStore) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	prompt, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q not found", name)
	}
	return prompt, nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error { return nil }

func (m *mockConfigStore) Load() error { return nil }

func (m *mockConfigStore) Path() string { return "/tmp/valigence-test/config.toml" }
