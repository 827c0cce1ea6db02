// Package vector provides a factory for creating vector index adapters.
package vector

import (
	"fmt"

	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/vector/memory"
	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/vector/pinecone"
	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/vector/qdrant"
	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// CreateIndex creates the appropriate vector index based on settings.
// Returns an error when the backend is not configured: unlike the AI
// providers, the pipeline cannot run at all without an index.
func CreateIndex(settings *domain.VectorIndexSettings) (driven.VectorIndex, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: run 'valigence settings wizard' to configure a backend",
			domain.ErrVectorIndexUnavailable)
	}

	switch settings.Provider {
	case domain.VectorProviderPinecone:
		return pinecone.NewIndex(pinecone.Config{
			APIKey:    settings.APIKey,
			IndexName: settings.IndexName,
			Dimension: settings.Dimension,
			Metric:    settings.Metric.String(),
		})

	case domain.VectorProviderQdrant:
		return qdrant.New(qdrant.Config{
			Addr:           settings.BaseURL,
			CollectionName: settings.IndexName,
			Dimension:      settings.Dimension,
			Metric:         settings.Metric,
		})

	case domain.VectorProviderMemory:
		return memory.New(settings.IndexName), nil

	default:
		return nil, fmt.Errorf("unsupported vector provider: %s", settings.Provider)
	}
}
