package driving

import (
	"context"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// ValidationService runs the full role validation pipeline: extract
// required roles from a definitions file, extract and index the document,
// pull the document's roles via the LLM and reconcile the two sets.
type ValidationService interface {
	// Validate reads the role definitions at rolesPath and the document
	// at documentPath, re-indexes the document under documentID and
	// returns the reconciliation report.
	Validate(ctx context.Context, rolesPath, documentPath, documentID string) (domain.ValidationReport, error)
}
