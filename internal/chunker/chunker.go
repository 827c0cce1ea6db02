// Package chunker splits document text into fixed-size overlapping windows.
package chunker

import (
	"fmt"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
)

// DefaultChunkSize is the default window length in characters.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters consecutive
// windows share.
const DefaultOverlap = 100

// Splitter cuts text into fixed-size chunks. Windows are measured in
// Unicode code points, so a chunk boundary never lands inside a rune.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the window length in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between windows in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// New creates a splitter with the given options. Configurations that
// could not make progress are rejected here rather than detected
// mid-document: the overlap must be non-negative and strictly smaller
// than the chunk size.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", domain.ErrInvalidConfig, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrInvalidConfig, s.overlap, s.chunkSize)
	}

	return s, nil
}

// ChunkSize returns the configured window length.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured window overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split cuts text into sequential windows. Every window except possibly
// the last is exactly chunkSize characters; consecutive windows share
// the configured overlap. Empty text produces no chunks.
func (s *Splitter) Split(text string) []domain.Chunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := s.chunkSize - s.overlap

	chunks := make([]domain.Chunk, 0, total/step+1)

	index := 0
	for start := 0; start < total; start += step {
		end := start + s.chunkSize
		if end > total {
			end = total
		}

		chunks = append(chunks, domain.Chunk{
			Text:  string(runes[start:end]),
			Index: index,
		})
		index++
	}

	return chunks
}
