package driving

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// HistoryService exposes recorded question/answer exchanges and
// validation runs.
type HistoryService interface {
	// Recent returns up to limit exchanges, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Exchange, error)

	// RecentValidations returns up to limit validation runs, newest first.
	RecentValidations(ctx context.Context, limit int) ([]domain.ValidationReport, error)

	// Purge deletes all recorded history.
	Purge(ctx context.Context) error
}
