package driving

import "context"

// AnswerService answers free-text questions against the indexed corpus.
type AnswerService interface {
	// Answer embeds the question, retrieves the closest chunks and asks
	// the LLM to respond from them. Retrieval failures degrade to fixed
	// explanatory messages rather than errors; the returned string is
	// always printable.
	Answer(ctx context.Context, question string) (string, error)
}
