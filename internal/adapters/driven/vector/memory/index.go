// Package memory provides an in-process vector index. Records live in a
// map and queries run an exact cosine scan, so it needs no backing
// service. Intended for tests and offline runs; nothing survives process
// exit.
package memory

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory vector index.
type Index struct {
	name string

	mu      sync.RWMutex
	records map[string]domain.VectorRecord
}

// New creates an empty in-memory index with the given name.
func New(name string) *Index {
	return &Index{
		name:    name,
		records: make(map[string]domain.VectorRecord),
	}
}

// EnsureReady is a no-op: the map is always ready.
func (i *Index) EnsureReady(_ context.Context) error {
	return nil
}

// Upsert stores the records, replacing any with the same ID.
func (i *Index) Upsert(_ context.Context, records []domain.VectorRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for _, r := range records {
		i.records[r.ID] = r
	}
	return len(records), nil
}

// Query scans every stored record, scores it by cosine similarity and
// returns the topK best matches in descending score order. Records whose
// metadata does not contain every filter pair are skipped.
func (i *Index) Query(_ context.Context, vector []float32, topK int, filter map[string]string) ([]domain.QueryMatch, error) {
	if topK <= 0 {
		return nil, nil
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	matches := make([]domain.QueryMatch, 0, len(i.records))
	for _, r := range i.records {
		if !metadataMatches(r.Metadata, filter) {
			continue
		}
		matches = append(matches, domain.QueryMatch{
			ID:       r.ID,
			Score:    cosineSimilarity(vector, r.Values),
			Metadata: r.Metadata,
		})
	}

	sort.Slice(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes every record whose metadata contains all the filter
// pairs. Deleting from an empty scope succeeds.
func (i *Index) Delete(_ context.Context, filter map[string]string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	for id, r := range i.records {
		if metadataMatches(r.Metadata, filter) {
			delete(i.records, id)
		}
	}
	return nil
}

// DeleteAll removes every stored record.
func (i *Index) DeleteAll(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records = make(map[string]domain.VectorRecord)
	return nil
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// Close releases nothing; the index is garbage-collected with its owner.
func (i *Index) Close() error {
	return nil
}

// Len reports how many records are stored. Test helper.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// metadataMatches reports whether the record metadata carries every
// filter pair. A nil or empty filter matches everything.
func metadataMatches(meta domain.RecordMetadata, filter map[string]string) bool {
	for key, want := range filter {
		switch key {
		case domain.MetaDocumentID:
			if meta.DocumentID != want {
				return false
			}
		case domain.MetaChunkIndex:
			if strconv.Itoa(meta.ChunkIndex) != want {
				return false
			}
		case domain.MetaContent:
			if meta.Content != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// cosineSimilarity returns a value in [-1, 1]; 1 means identical
// direction. Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
