package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/valigence-labs/valigence-cli/internal/adapters/driven/extract"
)

var indexDocumentID string

var indexCmd = &cobra.Command{
	Use:   "index [document]",
	Short: "Index a document for questioning",
	Long: `Extracts text from the document, splits it into chunks, embeds each
chunk and stores the vectors in the configured index. Previously stored
records for the same document identity are cleared first.

The document can be a PDF (requires pdftotext) or a plain-text file.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexDocumentID, "id", "", "document identity in the index (default: document filename)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	documentPath := args[0]

	documentID := indexDocumentID
	if documentID == "" {
		documentID = filepath.Base(documentPath)
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	text, err := extract.Default().Extract(cmd.Context(), documentPath)
	if err != nil {
		return fmt.Errorf("extracting document text: %w", err)
	}

	// Stale records from an earlier ingest would pollute retrieval.
	if err := p.indexer.Clear(cmd.Context(), documentID); err != nil {
		cmd.Printf("Warning: clearing previous records failed: %v\n", err)
	}

	outcome, err := p.indexer.Index(cmd.Context(), text, documentID)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if !outcome.Indexed() {
		cmd.Printf("Nothing indexed for %q: %s\n", documentID, outcome.Reason)
		return nil
	}

	cmd.Printf("Indexed %q: %d of %d chunks stored", documentID, outcome.IndexedCount, outcome.ChunkCount)
	if outcome.SkippedCount > 0 {
		cmd.Printf(" (%d skipped)", outcome.SkippedCount)
	}
	cmd.Println()
	return nil
}
