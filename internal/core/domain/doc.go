// Package domain defines the core business entities for Valigence.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded window of document text, the unit of embedding
//   - VectorRecord: The persisted (id, vector, metadata) triple
//   - QueryMatch: A similarity hit returned by the vector index
//   - ComparisonReport: The outcome of reconciling two role sets
//   - ValidationReport: The outcome of a full XML-vs-document validation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
