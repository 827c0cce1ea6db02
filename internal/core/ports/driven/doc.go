// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - LLMService: Generates text from prompts (answers, role extraction)
//   - VectorIndex: Owns one named similarity index (Pinecone, Qdrant, memory)
//   - DocumentExtractor: Extracts plain text from a document file
//   - RoleSource: Extracts declared role names from a definitions file
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: Customisable prompt templates. Without it, services fall
//     back to hardcoded defaults.
//   - HistoryStore: Question/answer and validation run persistence. Without
//     it, nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
