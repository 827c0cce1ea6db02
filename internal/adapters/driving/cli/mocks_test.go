package cli

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// setupTestServices replaces the package-level services with mocks and
// returns a cleanup that restores the originals.
func setupTestServices() func() {
	oldSettings := settingsService
	oldHistory := historyService

	settingsService = newMockSettingsService()
	historyService = &mockHistoryService{}

	return func() {
		settingsService = oldSettings
		historyService = oldHistory
	}
}

type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	saveErr     error
	validateErr error

	savedEmbedding domain.AIProvider
	savedLLM       domain.AIProvider
	savedVector    domain.VectorProvider
}

func newMockSettingsService() *mockSettingsService {
	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "test-embedding-key-123456"
	settings.LLM.APIKey = "test-llm-key-123456"
	return &mockSettingsService{settings: &settings}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.savedEmbedding = provider
	m.settings.Embedding.Provider = provider
	m.settings.Embedding.Model = model
	m.settings.Embedding.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.savedLLM = provider
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) SetVectorProvider(provider domain.VectorProvider, indexName, apiKey string) error {
	m.savedVector = provider
	m.settings.VectorIndex.Provider = provider
	if indexName != "" {
		m.settings.VectorIndex.IndexName = indexName
	}
	m.settings.VectorIndex.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return nil
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return nil
}

type mockHistoryService struct {
	exchanges []domain.Exchange
	reports   []domain.ValidationReport
	err       error
	purged    bool
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.Exchange, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.exchanges, nil
}

func (m *mockHistoryService) RecentValidations(_ context.Context, _ int) ([]domain.ValidationReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

func (m *mockHistoryService) Purge(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.purged = true
	return nil
}
