package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure Composite implements the interface.
var _ driven.DocumentExtractor = (*Composite)(nil)

// Composite dispatches extraction to the first extractor that supports
// the file's extension.
type Composite struct {
	extractors []driven.DocumentExtractor
}

// NewComposite creates a dispatcher over the given extractors, tried in
// order.
func NewComposite(extractors ...driven.DocumentExtractor) *Composite {
	return &Composite{extractors: extractors}
}

// Default returns a dispatcher over every built-in document extractor.
func Default() *Composite {
	return NewComposite(NewPDFToText(), NewPlaintext())
}

// Supports reports whether any wrapped extractor handles the path.
func (c *Composite) Supports(path string) bool {
	for _, e := range c.extractors {
		if e.Supports(path) {
			return true
		}
	}
	return false
}

// Extract delegates to the first extractor that supports the path.
func (c *Composite) Extract(ctx context.Context, path string) (string, error) {
	for _, e := range c.extractors {
		if e.Supports(path) {
			return e.Extract(ctx, path)
		}
	}
	return "", fmt.Errorf("%w: no extractor for %s", domain.ErrUnsupportedType, filepath.Ext(path))
}
