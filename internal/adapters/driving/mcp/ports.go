package mcp

import (
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions against the indexed corpus.
	Answer driving.AnswerService

	// Validator runs role validations.
	Validator driving.ValidationService

	// History exposes recorded validation runs. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Validator == nil {
		return ErrMissingValidationService
	}
	// History is optional
	return nil
}
