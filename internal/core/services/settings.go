package services

import (
	"fmt"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyEmbedRPM      = "embedding.requests_per_minute"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyVectorBackend = "vector_index.provider"
	keyVectorName    = "vector_index.index_name"
	keyVectorDim     = "vector_index.dimension"
	keyVectorMetric  = "vector_index.metric"
	keyVectorBaseURL = "vector_index.base_url"
	keyVectorAPIKey  = "vector_index.api_key"
	keyChunkSize     = "chunking.size"
	keyChunkOverlap  = "chunking.overlap"
	keyFuzzyThresh   = "comparison.fuzzy_threshold"
	keyQueryTopK     = "query.top_k"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getAIProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerMinute: s.configStore.GetInt(keyEmbedRPM), // Zero means unthrottled
		},
		LLM: domain.LLMSettings{
			Provider: s.getAIProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		VectorIndex: domain.VectorIndexSettings{
			Provider:  s.getVectorProvider(keyVectorBackend, defaults.VectorIndex.Provider),
			IndexName: s.getString(keyVectorName, defaults.VectorIndex.IndexName),
			Dimension: s.getInt(keyVectorDim, defaults.VectorIndex.Dimension),
			Metric:    s.getMetric(keyVectorMetric, defaults.VectorIndex.Metric),
			BaseURL:   s.configStore.GetString(keyVectorBaseURL),
			APIKey:    s.configStore.GetString(keyVectorAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Comparison: domain.ComparisonSettings{
			FuzzyThreshold: s.getIntAllowZero(keyFuzzyThresh, defaults.Comparison.FuzzyThreshold),
		},
		Query: domain.QuerySettings{
			TopK: s.getInt(keyQueryTopK, defaults.Query.TopK),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedRPM, settings.Embedding.RequestsPerMinute); err != nil {
		return fmt.Errorf("save embedding requests_per_minute: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save vector index settings
	if err := s.configStore.Set(keyVectorBackend, settings.VectorIndex.Provider.String()); err != nil {
		return fmt.Errorf("save vector provider: %w", err)
	}
	if err := s.configStore.Set(keyVectorName, settings.VectorIndex.IndexName); err != nil {
		return fmt.Errorf("save vector index_name: %w", err)
	}
	if err := s.configStore.Set(keyVectorDim, settings.VectorIndex.Dimension); err != nil {
		return fmt.Errorf("save vector dimension: %w", err)
	}
	if err := s.configStore.Set(keyVectorMetric, settings.VectorIndex.Metric.String()); err != nil {
		return fmt.Errorf("save vector metric: %w", err)
	}
	if err := s.configStore.Set(keyVectorBaseURL, settings.VectorIndex.BaseURL); err != nil {
		return fmt.Errorf("save vector base_url: %w", err)
	}
	if settings.VectorIndex.APIKey != "" {
		if err := s.configStore.Set(keyVectorAPIKey, settings.VectorIndex.APIKey); err != nil {
			return fmt.Errorf("save vector api_key: %w", err)
		}
	}

	// Save pipeline tuning
	if err := s.configStore.Set(keyChunkSize, settings.Chunking.Size); err != nil {
		return fmt.Errorf("save chunking size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.Overlap); err != nil {
		return fmt.Errorf("save chunking overlap: %w", err)
	}
	if err := s.configStore.Set(keyFuzzyThresh, settings.Comparison.FuzzyThreshold); err != nil {
		return fmt.Errorf("save fuzzy threshold: %w", err)
	}
	if err := s.configStore.Set(keyQueryTopK, settings.Query.TopK); err != nil {
		return fmt.Errorf("save query top_k: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Keep the index dimension in step with the model
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		settings.VectorIndex.Dimension = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorProvider configures the vector index backend.
func (s *SettingsService) SetVectorProvider(provider domain.VectorProvider, indexName, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid vector provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.VectorIndex.Provider = provider
	if indexName != "" {
		settings.VectorIndex.IndexName = indexName
	}
	settings.VectorIndex.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Validate(); err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured (missing API key?)", settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q is not configured (missing API key?)", settings.LLM.Provider)
	}
	if !settings.VectorIndex.IsConfigured() {
		return fmt.Errorf("vector provider %q is not configured (missing API key?)", settings.VectorIndex.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes "explicitly zero" from "not set".
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getAIProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := domain.AIProvider(s.configStore.GetString(key))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getVectorProvider(key string, defaultVal domain.VectorProvider) domain.VectorProvider {
	val := domain.VectorProvider(s.configStore.GetString(key))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getMetric(key string, defaultVal domain.DistanceMetric) domain.DistanceMetric {
	val := domain.DistanceMetric(s.configStore.GetString(key))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}
