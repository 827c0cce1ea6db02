package services

import (
	"context"
	"fmt"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit caps listings when callers pass no limit.
const DefaultHistoryLimit = 50

// HistoryService exposes recorded exchanges and validation runs.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Recent returns up to limit exchanges, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	exchanges, err := s.store.RecentExchanges(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list exchanges: %w", err)
	}
	return exchanges, nil
}

// RecentValidations returns up to limit validation runs, newest first.
func (s *HistoryService) RecentValidations(ctx context.Context, limit int) ([]domain.ValidationReport, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	reports, err := s.store.RecentValidations(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list validation runs: %w", err)
	}
	return reports, nil
}

// Purge deletes all recorded history.
func (s *HistoryService) Purge(ctx context.Context) error {
	if err := s.store.Purge(ctx); err != nil {
		return fmt.Errorf("purge history: %w", err)
	}
	return nil
}
