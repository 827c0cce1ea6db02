package driven

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// VectorIndex owns one named, dimensioned similarity index and provides
// upsert, query and delete against it.
//
// Implementations may include:
//   - Pinecone (serverless, REST)
//   - Qdrant (self-hosted, gRPC)
//   - In-memory (tests, offline runs)
type VectorIndex interface {
	// EnsureReady creates the index if it does not exist and blocks,
	// polling with a bounded wait budget, until the backing store reports
	// it ready. Idempotent: an existing ready index returns immediately.
	// Returns domain.ErrIndexProvisioning when create or describe fails
	// and domain.ErrReadyTimeout when the wait budget is exhausted.
	EnsureReady(ctx context.Context) error

	// Upsert stores the records and returns how many were written. Empty
	// input is a no-op returning 0. Backends with per-request size caps
	// write in batches; when an error interrupts the write, the returned
	// count reports what landed before it.
	Upsert(ctx context.Context, records []domain.VectorRecord) (int, error)

	// Query returns at most topK matches ordered by descending score.
	// A nil filter searches the whole index; a non-nil filter restricts
	// matches to records whose metadata contains every given pair.
	// An empty result is not an error.
	Query(ctx context.Context, vector []float32, topK int, filter map[string]string) ([]domain.QueryMatch, error)

	// Delete removes every record whose metadata contains all the given
	// pairs. A "not found" condition from the backing store is a
	// successful no-op: the desired absence already holds.
	Delete(ctx context.Context, filter map[string]string) error

	// DeleteAll removes every record in the index. Not-found is a no-op.
	DeleteAll(ctx context.Context) error

	// Name returns the index name.
	Name() string

	// Close releases resources.
	Close() error
}
