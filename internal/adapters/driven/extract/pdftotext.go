package extract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driven"
)

// Ensure PDFToText implements the interface.
var _ driven.DocumentExtractor = (*PDFToText)(nil)

// ErrPDFToolNotFound is returned when the pdftotext binary is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner executes an external command and returns its stdout.
// Injectable so tests can fake the pdftotext binary.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFToText extracts PDF text by shelling out to the poppler pdftotext
// tool with layout preservation, so table rows come through as aligned
// columns the LLM can still read counts from.
type PDFToText struct {
	runner CommandRunner
}

// NewPDFToText creates a PDF extractor using the system pdftotext binary.
func NewPDFToText() *PDFToText {
	return &PDFToText{runner: execRunner{}}
}

// NewPDFToTextWithRunner creates a PDF extractor with a custom runner.
func NewPDFToTextWithRunner(runner CommandRunner) *PDFToText {
	return &PDFToText{runner: runner}
}

// CheckAvailable verifies the pdftotext binary is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext (poppler) is required for PDF extraction:
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}

// Supports reports whether the path is a PDF file.
func (p *PDFToText) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract runs pdftotext with -layout and returns its stdout. The "-"
// output argument streams the text instead of writing a sidecar file.
func (p *PDFToText) Extract(ctx context.Context, path string) (string, error) {
	output, err := p.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed for %s: %w", path, err)
	}
	return string(output), nil
}
