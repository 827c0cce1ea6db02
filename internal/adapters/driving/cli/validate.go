package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/valigence-labs/valigence-cli/internal/core/domain"
	"github.com/valigence-labs/valigence-cli/internal/logger"
)

var (
	validateDocumentID string
	validateWatch      bool
)

// Report styles.
var (
	completeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	incompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headingStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var validateCmd = &cobra.Command{
	Use:   "validate [roles-file] [document]",
	Short: "Validate role coverage in a document",
	Long: `Checks whether the document mentions every role the definitions file
declares. The document is indexed into the vector store and the LLM
extracts the roles it actually names; the two sets are reconciled with
exact and fuzzy matching.

The roles file is an XML document with <role> elements. The document can
be a PDF (requires pdftotext) or a plain-text file.

Use --watch to re-run the validation whenever either file changes.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDocumentID, "id", "", "document identity in the index (default: document filename)")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "re-validate when either input file changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	rolesPath, documentPath := args[0], args[1]

	documentID := validateDocumentID
	if documentID == "" {
		documentID = filepath.Base(documentPath)
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	if err := validateOnce(cmd, p, rolesPath, documentPath, documentID); err != nil {
		return err
	}

	if !validateWatch {
		return nil
	}

	return watchAndValidate(cmd, p, rolesPath, documentPath, documentID)
}

func validateOnce(cmd *cobra.Command, p *pipeline, rolesPath, documentPath, documentID string) error {
	report, err := p.validator.Validate(cmd.Context(), rolesPath, documentPath, documentID)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	renderReport(cmd, report)
	return nil
}

// watchAndValidate re-runs the validation whenever either input file
// changes. Editors often replace files on save, which drops the watch on
// the old inode, so paths are re-added after every event.
func watchAndValidate(cmd *cobra.Command, p *pipeline, rolesPath, documentPath, documentID string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directories: replace-on-save works, and both
	// inputs may live in the same directory.
	dirs := map[string]struct{}{
		filepath.Dir(rolesPath):    {},
		filepath.Dir(documentPath): {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	watched := map[string]struct{}{
		filepath.Clean(rolesPath):    {},
		filepath.Clean(documentPath): {},
	}

	cmd.Println(dimStyle.Render("Watching for changes. Press Ctrl+C to stop."))

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, relevant := watched[filepath.Clean(event.Name)]; !relevant {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cmd.Printf("\n%s changed, re-validating...\n\n", filepath.Base(event.Name))
			if err := validateOnce(cmd, p, rolesPath, documentPath, documentID); err != nil {
				// Keep watching: a transient failure (half-written
				// file) should not end the session.
				logger.Warn("Validation failed: %v", err)
				cmd.Printf("Validation failed: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// renderReport prints a validation report.
func renderReport(cmd *cobra.Command, report domain.ValidationReport) {
	cmd.Println(headingStyle.Render("Validation Report"))
	cmd.Println(headingStyle.Render("================="))
	cmd.Println()
	cmd.Printf("Document: %s\n", report.DocumentID)
	cmd.Printf("Required roles: %d\n", len(report.RequiredRoles))
	cmd.Printf("Roles found in document: %d\n", len(report.FoundRoles))
	cmd.Printf("Chunks indexed: %d of %d", report.Indexing.IndexedCount, report.Indexing.ChunkCount)
	if report.Indexing.SkippedCount > 0 {
		cmd.Printf(" (%d skipped)", report.Indexing.SkippedCount)
	}
	cmd.Println()
	if report.Indexing.Reason != "" {
		cmd.Println(dimStyle.Render("Note: " + report.Indexing.Reason))
	}
	cmd.Println()

	if report.Comparison.Complete() {
		cmd.Println(completeStyle.Render("COMPLETE: every required role is covered."))
		return
	}

	cmd.Println(incompleteStyle.Render("--- MISSING ROLES ---"))
	for _, role := range report.Comparison.MissingRoles {
		cmd.Printf("  - %s\n", role)
	}
	cmd.Println()
	cmd.Println(incompleteStyle.Render(fmt.Sprintf("INCOMPLETE: %d of %d required roles missing.",
		len(report.Comparison.MissingRoles), len(report.RequiredRoles))))

	if len(report.FoundRoles) > 0 && logger.IsVerbose() {
		cmd.Println()
		cmd.Println(dimStyle.Render("Roles found: " + strings.Join(report.FoundRoles, ", ")))
	}
}
