package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.DocumentExtractor = (*Plaintext)(nil)

// plaintextExtensions are the file extensions read as UTF-8 text.
var plaintextExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// Plaintext reads a document file verbatim as UTF-8 text.
type Plaintext struct{}

// NewPlaintext creates a new plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Supports reports whether the path looks like a plain text file.
func (p *Plaintext) Supports(path string) bool {
	return plaintextExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract returns the file content as a string.
func (p *Plaintext) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
