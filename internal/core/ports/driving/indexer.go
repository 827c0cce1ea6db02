package driving

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// IndexerService ingests extracted document text into the vector index.
type IndexerService interface {
	// Index chunks, embeds and stores text under the given document
	// identity. The outcome reports how many chunks were stored or why
	// nothing was; degenerate input (empty text) is an outcome, not an
	// error.
	Index(ctx context.Context, text, documentID string) (domain.IndexOutcome, error)

	// Clear removes every stored record for the document identity.
	// Clearing an identity with no records is a successful no-op.
	Clear(ctx context.Context, documentID string) error
}
