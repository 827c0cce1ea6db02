package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
	"github.com/valigence-labs/valigence-cli/internal/logger"
)

// Ensure ValidationService implements the interfaces.
var (
	_ driving.ValidationService = (*ValidationService)(nil)
	_ driven.PromptStoreAware   = (*ValidationService)(nil)
)

// defaultRoleExtractionPrompt asks the LLM for every role the document
// names. The document text is appended after the template.
const defaultRoleExtractionPrompt = "List all the roles mentioned in the following document. " +
	"Provide a comma-separated list of unique roles. If no roles are found, respond with 'None'."

// ValidationService runs the full validation pipeline: required roles from
// the definitions file, document text into the index, document roles out
// of the LLM, and the reconciliation of the two role sets.
type ValidationService struct {
	roleSource  driven.RoleSource
	extractor   driven.DocumentExtractor
	llm         driven.LLMService
	indexer     driving.IndexerService
	comparer    driving.CompareService
	history     driven.HistoryStore
	promptStore driven.PromptStore
}

// NewValidationService creates a new validation service.
func NewValidationService(
	roleSource driven.RoleSource,
	extractor driven.DocumentExtractor,
	llm driven.LLMService,
	indexer driving.IndexerService,
	comparer driving.CompareService,
) *ValidationService {
	return &ValidationService{
		roleSource: roleSource,
		extractor:  extractor,
		llm:        llm,
		indexer:    indexer,
		comparer:   comparer,
	}
}

// SetHistoryStore sets the store validation runs are recorded in.
// If not set, runs are not recorded.
func (s *ValidationService) SetHistoryStore(store driven.HistoryStore) {
	s.history = store
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *ValidationService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Validate reconciles the roles declared at rolesPath against the roles
// the document at documentPath actually mentions. The document is cleared
// and re-indexed under documentID as a side effect, so follow-up questions
// run against fresh records.
func (s *ValidationService) Validate(ctx context.Context, rolesPath, documentPath, documentID string) (domain.ValidationReport, error) {
	logger.Section("Role Validation")
	logger.Debug("Definitions: %q, document: %q, id: %q", rolesPath, documentPath, documentID)

	var report domain.ValidationReport

	required, err := s.roleSource.Roles(ctx, rolesPath)
	if err != nil {
		return report, fmt.Errorf("extract required roles: %w", err)
	}
	required = domain.UniqueRoles(required)
	logger.Info("Required roles: %d", len(required))
	if len(required) == 0 {
		logger.Warn("Definitions file declares no roles")
	}

	text, err := s.extractor.Extract(ctx, documentPath)
	if err != nil {
		return report, fmt.Errorf("extract document text: %w", err)
	}

	// Stale records from an earlier ingest of this identity would pollute
	// both retrieval and the indexed-count report.
	if err := s.indexer.Clear(ctx, documentID); err != nil {
		logger.Warn("Clearing previous records failed: %v", err)
	}

	outcome, err := s.indexer.Index(ctx, text, documentID)
	if err != nil {
		return report, fmt.Errorf("index document: %w", err)
	}

	found := s.extractRoles(ctx, text)
	logger.Info("Roles found in document: %d", len(found))

	report = domain.ValidationReport{
		DocumentID:    documentID,
		RequiredRoles: required,
		FoundRoles:    found,
		Comparison:    s.comparer.Compare(required, found),
		Indexing:      outcome,
		RanAt:         time.Now(),
	}

	if s.history != nil {
		if err := s.history.SaveValidation(ctx, report); err != nil {
			logger.Warn("Recording validation run failed: %v", err)
		}
	}

	return report, nil
}

// extractRoles asks the LLM which roles the document text mentions.
// Provider failures and unparseable replies degrade to an empty list.
func (s *ValidationService) extractRoles(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		logger.Warn("No document text for role extraction")
		return nil
	}

	template := s.loadPrompt(driven.PromptRoleExtraction, defaultRoleExtractionPrompt)
	prompt := template + "\n\nDocument Content:\n" + text

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		logger.Warn("Role extraction failed: %v", err)
		return nil
	}

	return parseRoleList(raw)
}

// parseRoleList turns the LLM's comma-separated reply into a role list.
// The literal reply 'None' (any casing) and empty replies mean no roles.
func parseRoleList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}

	parts := strings.Split(raw, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		if role := strings.TrimSpace(part); role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		return nil
	}
	return domain.UniqueRoles(roles)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *ValidationService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
