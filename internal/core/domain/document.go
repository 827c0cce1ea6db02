package domain

// Metadata keys carried on every vector record. Adapters translate these
// into whatever key-value shape their backend stores.
const (
	// MetaDocumentID groups all records of one ingested document.
	MetaDocumentID = "document_id"

	// MetaChunkIndex is the 0-based position of the chunk in its document.
	MetaChunkIndex = "chunk_index"

	// MetaContent is the verbatim chunk text, kept for retrieval context.
	MetaContent = "content"
)

// Chunk is a contiguous window of a source document's text.
// Chunks are ephemeral: produced by the chunker, embedded, and folded
// into VectorRecords. They are never persisted on their own.
type Chunk struct {
	// Text is the window content.
	Text string

	// Index is the 0-based sequence number within the document.
	Index int
}

// RecordMetadata is the typed metadata attached to every vector record.
type RecordMetadata struct {
	// DocumentID is the caller-supplied identity grouping all chunks of
	// one ingested document. Deleting by DocumentID removes exactly the
	// records of that document.
	DocumentID string

	// ChunkIndex is the chunk's 0-based position within the document.
	ChunkIndex int

	// Content is the verbatim chunk text.
	Content string
}

// VectorRecord is the unit of persistence in the vector index.
type VectorRecord struct {
	// ID is unique across the index. It combines the document identity
	// with a random suffix so repeated ingests never collide.
	ID string

	// Values is the embedding. Its length must equal the index dimension.
	Values []float32

	// Metadata carries the document identity, chunk position and text.
	Metadata RecordMetadata
}

// QueryMatch is a read-only similarity hit returned by a vector query.
// Matches arrive ordered by descending score; ties are broken arbitrarily
// by the backing store.
type QueryMatch struct {
	// ID is the matched record's identifier.
	ID string

	// Score is the cosine similarity in [-1, 1].
	Score float64

	// Metadata is the stored record metadata.
	Metadata RecordMetadata
}

// IndexOutcome reports what an ingest attempt actually did. A zero
// IndexedCount is not an error: empty input and all-chunks-skipped are
// valid degenerate outcomes the caller must be able to observe.
type IndexOutcome struct {
	// DocumentID is the identity the ingest ran under.
	DocumentID string

	// ChunkCount is how many chunks the document split into.
	ChunkCount int

	// IndexedCount is how many records were upserted.
	IndexedCount int

	// SkippedCount is how many chunks were dropped because their
	// embedding failed or came back empty or mis-sized.
	SkippedCount int

	// Reason explains a zero IndexedCount in human terms.
	Reason string
}

// Indexed reports whether the ingest stored at least one record.
func (o IndexOutcome) Indexed() bool {
	return o.IndexedCount > 0
}
