package driven

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// HistoryStore persists question/answer exchanges and validation runs.
// Implementations handle storage (e.g., SQLite) and schema migration.
type HistoryStore interface {
	// SaveExchange records one question/answer turn.
	SaveExchange(ctx context.Context, exchange domain.Exchange) error

	// RecentExchanges returns up to limit exchanges, newest first.
	RecentExchanges(ctx context.Context, limit int) ([]domain.Exchange, error)

	// SaveValidation records the outcome of one validation run.
	SaveValidation(ctx context.Context, report domain.ValidationReport) error

	// RecentValidations returns up to limit validation runs, newest first.
	RecentValidations(ctx context.Context, limit int) ([]domain.ValidationReport, error)

	// Purge deletes all stored history.
	Purge(ctx context.Context) error

	// Close releases the underlying storage.
	Close() error
}
