package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/valigence-labs/valigence-cli/internal/chunker"
	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
	"github.com/valigence-labs/valigence-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.IndexerService = (*IndexerService)(nil)

// IndexerService ingests extracted document text into the vector index:
// chunk, embed, upsert. Re-ingesting a document identity without clearing
// it first accumulates stale records; callers run Clear beforehand.
type IndexerService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	splitter *chunker.Splitter
}

// NewIndexerService creates a new indexer service.
func NewIndexerService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	splitter *chunker.Splitter,
) *IndexerService {
	return &IndexerService{
		embedder: embedder,
		index:    index,
		splitter: splitter,
	}
}

// Index chunks, embeds and stores text under the given document identity.
// Chunks whose embedding fails are skipped, not fatal: the document is
// indexed with whatever chunks survive. Empty text and zero surviving
// chunks are reported through the outcome, not as errors.
func (s *IndexerService) Index(ctx context.Context, text, documentID string) (domain.IndexOutcome, error) {
	logger.Section("Document Indexing")
	logger.Debug("Document: %q", documentID)

	outcome := domain.IndexOutcome{DocumentID: documentID}

	if strings.TrimSpace(text) == "" {
		logger.Warn("No text to index for %q", documentID)
		outcome.Reason = "document produced no text"
		return outcome, nil
	}

	if err := s.index.EnsureReady(ctx); err != nil {
		return outcome, fmt.Errorf("ensure index ready: %w", err)
	}

	chunks := s.splitter.Split(text)
	outcome.ChunkCount = len(chunks)
	logger.Debug("Split into %d chunks", len(chunks))

	wantDims := s.embedder.Dimensions()
	records := make([]domain.VectorRecord, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			logger.Warn("Chunk %d: embedding failed, skipping: %v", chunk.Index, err)
			outcome.SkippedCount++
			continue
		}
		if len(vector) == 0 || (wantDims > 0 && len(vector) != wantDims) {
			logger.Warn("Chunk %d: embedding has %d values, want %d, skipping", chunk.Index, len(vector), wantDims)
			outcome.SkippedCount++
			continue
		}

		records = append(records, domain.VectorRecord{
			ID:     recordID(documentID),
			Values: vector,
			Metadata: domain.RecordMetadata{
				DocumentID: documentID,
				ChunkIndex: chunk.Index,
				Content:    chunk.Text,
			},
		})
	}

	if len(records) == 0 {
		logger.Warn("No chunk of %q could be embedded, nothing to upsert", documentID)
		outcome.Reason = "no chunk could be embedded"
		return outcome, nil
	}

	count, err := s.index.Upsert(ctx, records)
	if err != nil {
		return outcome, fmt.Errorf("upsert %d records: %w", len(records), err)
	}

	outcome.IndexedCount = count
	logger.Info("Indexed %d of %d chunks for %q", count, len(chunks), documentID)
	return outcome, nil
}

// Clear removes every stored record for the document identity. An identity
// with no records clears successfully.
func (s *IndexerService) Clear(ctx context.Context, documentID string) error {
	logger.Debug("Clearing records for document %q", documentID)
	filter := map[string]string{domain.MetaDocumentID: documentID}
	if err := s.index.Delete(ctx, filter); err != nil {
		return fmt.Errorf("clear document %q: %w", documentID, err)
	}
	return nil
}

// recordID builds a unique vector ID. The document identity prefix keeps
// records traceable; the random suffix keeps repeated ingests of the same
// identity from colliding.
func recordID(documentID string) string {
	u := uuid.New()
	return documentID + "-" + hex.EncodeToString(u[:])
}
