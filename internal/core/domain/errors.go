package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Vector adapters return this for missing indexes, collections and
	// namespaces so delete operations can treat absence as success.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates bad construction parameters
	// (chunk overlap >= chunk size, threshold out of range, missing
	// credentials). Fatal at construction, never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedType indicates an unknown document or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrIndexProvisioning indicates the vector index could not be
	// created or described. Fatal to the calling operation.
	ErrIndexProvisioning = errors.New("vector index provisioning failed")

	// ErrReadyTimeout indicates the vector index did not report ready
	// within the wait budget.
	ErrReadyTimeout = errors.New("vector index not ready before deadline")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured. Indexing and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the generation provider is not
	// configured. Answer synthesis and role extraction are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorIndexUnavailable indicates no vector index is configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
