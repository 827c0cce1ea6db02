package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is Anthropic cloud API (LLM only).
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbedding returns true if this provider offers an embedding API.
func (p AIProvider) SupportsEmbedding() bool {
	return p != AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// VectorProvider identifies a vector index backend.
type VectorProvider string

// Available vector providers.
const (
	// VectorProviderPinecone is Pinecone serverless cloud.
	VectorProviderPinecone VectorProvider = "pinecone"

	// VectorProviderQdrant is a Qdrant instance reached over gRPC.
	VectorProviderQdrant VectorProvider = "qdrant"

	// VectorProviderMemory is an in-process index for tests and offline runs.
	VectorProviderMemory VectorProvider = "memory"
)

// IsValid returns true if the vector provider is recognised.
func (p VectorProvider) IsValid() bool {
	switch p {
	case VectorProviderPinecone, VectorProviderQdrant, VectorProviderMemory:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p VectorProvider) RequiresAPIKey() bool {
	return p == VectorProviderPinecone
}

// String returns the string representation.
func (p VectorProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p VectorProvider) Description() string {
	switch p {
	case VectorProviderPinecone:
		return "Pinecone (serverless cloud)"
	case VectorProviderQdrant:
		return "Qdrant (self-hosted, gRPC)"
	case VectorProviderMemory:
		return "In-memory (no persistence)"
	default:
		return unknownDescription
	}
}

// DistanceMetric is the similarity metric a vector index is created with.
type DistanceMetric string

// Available distance metrics.
const (
	// MetricCosine ranks by cosine similarity.
	MetricCosine DistanceMetric = "cosine"

	// MetricDotProduct ranks by dot product.
	MetricDotProduct DistanceMetric = "dotproduct"

	// MetricEuclidean ranks by inverse euclidean distance.
	MetricEuclidean DistanceMetric = "euclidean"
)

// IsValid returns true if the metric is recognised.
func (m DistanceMetric) IsValid() bool {
	switch m {
	case MetricCosine, MetricDotProduct, MetricEuclidean:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m DistanceMetric) String() string {
	return string(m)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini/OpenAI).
	APIKey string

	// RequestsPerMinute throttles embedding calls when positive.
	// Zero disables client-side throttling.
	RequestsPerMinute int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Gemini/OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	// Provider is the vector index backend.
	Provider VectorProvider

	// IndexName is the index (or collection) documents are stored in.
	IndexName string

	// Dimension is the embedding vector size the index is created with.
	Dimension int

	// Metric is the similarity metric the index is created with.
	Metric DistanceMetric

	// BaseURL is the endpoint (for Qdrant).
	BaseURL string

	// APIKey is the API key (for Pinecone).
	APIKey string
}

// IsConfigured returns true if the vector provider is set up.
func (v VectorIndexSettings) IsConfigured() bool {
	if !v.Provider.IsValid() {
		return false
	}
	if v.Provider.RequiresAPIKey() && v.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds document chunking configuration.
type ChunkingSettings struct {
	// Size is the chunk window length in characters.
	Size int

	// Overlap is how many characters consecutive chunks share.
	Overlap int
}

// ComparisonSettings holds role reconciliation configuration.
type ComparisonSettings struct {
	// FuzzyThreshold is the minimum token-sort similarity score (0-100)
	// for a fuzzy role match. Exact normalized matches always win.
	FuzzyThreshold int
}

// QuerySettings holds retrieval configuration.
type QuerySettings struct {
	// TopK is how many nearest chunks a question retrieves.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// VectorIndex holds vector index settings.
	VectorIndex VectorIndexSettings

	// Chunking holds document chunking settings.
	Chunking ChunkingSettings

	// Comparison holds role reconciliation settings.
	Comparison ComparisonSettings

	// Query holds retrieval settings.
	Query QuerySettings
}

// Validate rejects settings that would fail only after work has been
// queued. It returns ErrInvalidConfig wrapped with the first problem found.
func (s AppSettings) Validate() error {
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfig, s.Embedding.Provider)
	}
	if !s.Embedding.Provider.SupportsEmbedding() {
		return fmt.Errorf("%w: provider %q has no embedding API", ErrInvalidConfig, s.Embedding.Provider)
	}
	if !s.LLM.Provider.IsValid() {
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, s.LLM.Provider)
	}
	if !s.VectorIndex.Provider.IsValid() {
		return fmt.Errorf("%w: unknown vector provider %q", ErrInvalidConfig, s.VectorIndex.Provider)
	}
	if s.VectorIndex.IndexName == "" {
		return fmt.Errorf("%w: vector index name must not be empty", ErrInvalidConfig)
	}
	if s.VectorIndex.Dimension <= 0 {
		return fmt.Errorf("%w: vector dimension must be positive, got %d", ErrInvalidConfig, s.VectorIndex.Dimension)
	}
	if !s.VectorIndex.Metric.IsValid() {
		return fmt.Errorf("%w: unknown distance metric %q", ErrInvalidConfig, s.VectorIndex.Metric)
	}
	if s.Chunking.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, s.Chunking.Size)
	}
	if s.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidConfig, s.Chunking.Overlap)
	}
	if s.Chunking.Overlap >= s.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidConfig, s.Chunking.Overlap, s.Chunking.Size)
	}
	if s.Comparison.FuzzyThreshold < 0 || s.Comparison.FuzzyThreshold > 100 {
		return fmt.Errorf("%w: fuzzy threshold must be within 0-100, got %d", ErrInvalidConfig, s.Comparison.FuzzyThreshold)
	}
	if s.Query.TopK <= 0 {
		return fmt.Errorf("%w: query top-k must be positive, got %d", ErrInvalidConfig, s.Query.TopK)
	}
	return nil
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are never defaulted; users supply them via the settings
// wizard, the config file, or environment variables.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderGemini,
			Model:    "embedding-001",
		},
		LLM: LLMSettings{
			Provider: AIProviderGemini,
			Model:    "gemini-2.5-flash",
		},
		VectorIndex: VectorIndexSettings{
			Provider:  VectorProviderPinecone,
			IndexName: "role-comparison-index",
			Dimension: 768, // embedding-001 output size
			Metric:    MetricCosine,
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 100,
		},
		Comparison: ComparisonSettings{
			FuzzyThreshold: 80,
		},
		Query: QuerySettings{
			TopK: 20,
		},
	}
}

// AllAIProviders returns all available AI providers.
func AllAIProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderAnthropic,
	}
}

// AllVectorProviders returns all available vector providers.
func AllVectorProviders() []VectorProvider {
	return []VectorProvider{
		VectorProviderPinecone,
		VectorProviderQdrant,
		VectorProviderMemory,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "embedding-001",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderOllama: "nomic-embed-text",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.5-flash",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderOllama:    "llama3.2",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Gemini models
		"embedding-001":      768,
		"text-embedding-004": 768,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
	}
}
