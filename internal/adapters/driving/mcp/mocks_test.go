package mcp

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer       string
	err          error
	lastQuestion string
}

func (m *mockAnswerService) Answer(_ context.Context, question string) (string, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

// mockValidationService is a mock implementation of driving.ValidationService.
type mockValidationService struct {
	report         domain.ValidationReport
	err            error
	lastDocumentID string
}

func (m *mockValidationService) Validate(
	_ context.Context,
	_, _, documentID string,
) (domain.ValidationReport, error) {
	m.lastDocumentID = documentID
	return m.report, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	exchanges []domain.Exchange
	reports   []domain.ValidationReport
	err       error
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.Exchange, error) {
	return m.exchanges, m.err
}

func (m *mockHistoryService) RecentValidations(_ context.Context, _ int) ([]domain.ValidationReport, error) {
	return m.reports, m.err
}

func (m *mockHistoryService) Purge(_ context.Context) error {
	return m.err
}
