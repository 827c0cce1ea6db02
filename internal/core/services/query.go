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

// Ensure AnswerService implements the interfaces.
var (
	_ driving.AnswerService   = (*AnswerService)(nil)
	_ driven.PromptStoreAware = (*AnswerService)(nil)
)

// Messages returned instead of errors when retrieval degrades. The answer
// pipeline never propagates provider failures to the caller; it hands back
// a printable explanation instead.
const (
	// MsgNoQueryEmbedding is returned when the question could not be embedded.
	MsgNoQueryEmbedding = "Could not generate query embedding."

	// MsgNoMatches is returned when the index has nothing close to the question.
	MsgNoMatches = "No relevant information found in PDF."

	// MsgNoContent is returned when matches exist but none carries stored text.
	MsgNoContent = "No retrievable content in the matched chunks."
)

// DefaultTopK is how many chunks a question retrieves when unconfigured.
const DefaultTopK = 20

// tabularKeywords mark questions that likely want numbers out of tables.
// A plain substring test on the lower-cased question, nothing smarter.
var tabularKeywords = []string{"table", "count", "number of", "how many"}

// Default prompt templates, overridable through a PromptStore.
const (
	defaultAnswerTabularPrompt = "Based on the following document excerpts, specifically focus on any tables or structured lists " +
		"to answer: '%s'. If exact numbers are provided, use them. If no relevant table is found, say so.\n\n" +
		"Document Excerpts:\n%s\n\nAnswer:"

	defaultAnswerGenericPrompt = "Based on the following document excerpts, answer: '%s'.\n\n" +
		"Document Excerpts:\n%s\n\nAnswer:"
)

// AnswerService answers free-text questions against the indexed corpus:
// embed the question, retrieve the closest chunks, hand their stored text
// to the LLM.
type AnswerService struct {
	embedder    driven.EmbeddingService
	index       driven.VectorIndex
	llm         driven.LLMService
	topK        int
	history     driven.HistoryStore
	promptStore driven.PromptStore
}

// NewAnswerService creates a new answer service. A non-positive topK falls
// back to DefaultTopK.
func NewAnswerService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	llm driven.LLMService,
	topK int,
) *AnswerService {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &AnswerService{
		embedder: embedder,
		index:    index,
		llm:      llm,
		topK:     topK,
	}
}

// SetHistoryStore sets the store exchanges are recorded in.
// If not set, exchanges are not recorded.
func (s *AnswerService) SetHistoryStore(store driven.HistoryStore) {
	s.history = store
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Answer runs the retrieval pipeline for one question. Provider failures
// degrade to fixed messages; only index provisioning failures and invalid
// input surface as errors.
func (s *AnswerService) Answer(ctx context.Context, question string) (string, error) {
	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question must not be empty", domain.ErrInvalidInput)
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil || len(vector) == 0 {
		logger.Warn("Question embedding failed: %v", err)
		return s.record(ctx, question, MsgNoQueryEmbedding), nil
	}

	if err := s.index.EnsureReady(ctx); err != nil {
		return "", fmt.Errorf("ensure index ready: %w", err)
	}

	matches, err := s.index.Query(ctx, vector, s.topK, nil)
	if err != nil {
		logger.Warn("Vector query failed: %v", err)
		matches = nil
	}
	logger.Debug("Retrieved %d matches", len(matches))

	if len(matches) == 0 {
		return s.record(ctx, question, MsgNoMatches), nil
	}

	contexts := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Metadata.Content == "" {
			logger.Warn("Match %s carries no content, skipping", match.ID)
			continue
		}
		contexts = append(contexts, match.Metadata.Content)
	}
	if len(contexts) == 0 {
		return s.record(ctx, question, MsgNoContent), nil
	}

	excerpts := strings.Join(contexts, "\n\n")
	prompt := s.buildPrompt(question, excerpts)

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		logger.Warn("Answer generation failed: %v", err)
		answer = ""
	}

	return s.record(ctx, question, answer), nil
}

// buildPrompt selects the prompt shape for the question: questions that
// look numeric or tabular steer the LLM towards tables in the excerpts.
func (s *AnswerService) buildPrompt(question, excerpts string) string {
	lowered := strings.ToLower(question)
	for _, keyword := range tabularKeywords {
		if strings.Contains(lowered, keyword) {
			logger.Debug("Tabular prompt selected (keyword %q)", keyword)
			template := s.loadPrompt(driven.PromptAnswerTabular, defaultAnswerTabularPrompt)
			return fmt.Sprintf(template, question, excerpts)
		}
	}
	template := s.loadPrompt(driven.PromptAnswerGeneric, defaultAnswerGenericPrompt)
	return fmt.Sprintf(template, question, excerpts)
}

// record persists the exchange when a history store is configured and
// passes the answer through unchanged.
func (s *AnswerService) record(ctx context.Context, question, answer string) string {
	if s.history == nil {
		return answer
	}
	exchange := domain.Exchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now(),
	}
	if err := s.history.SaveExchange(ctx, exchange); err != nil {
		logger.Warn("Recording exchange failed: %v", err)
	}
	return answer
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *AnswerService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
