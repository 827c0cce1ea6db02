// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model text generation.
// The query engine uses it to synthesise answers from retrieved context;
// the validator uses it to extract role names from document text.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash)
//   - OpenAI (GPT-4o family)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	// Callers treat an error or an empty response as "no text", never as
	// a fatal pipeline failure.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before committing to a pipeline run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
