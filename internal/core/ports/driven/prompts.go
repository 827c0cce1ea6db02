package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptRoleExtraction asks the LLM to list every role named in a
	// document as a comma-separated list, or 'None' when there are none.
	// The document text is appended after the template.
	PromptRoleExtraction = "role_extraction"

	// PromptAnswerTabular answers numeric/count questions, steering the
	// LLM towards tables in the retrieved excerpts.
	// The template expects two %s placeholders: question, then excerpts.
	PromptAnswerTabular = "answer_tabular"

	// PromptAnswerGeneric answers free-form questions over retrieved excerpts.
	// The template expects two %s placeholders: question, then excerpts.
	PromptAnswerGeneric = "answer_generic"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
// Services implementing this interface can have their prompt templates customised
// by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
