package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [document-id]",
	Short: "Remove indexed records",
	Long: `Removes stored vectors for a document identity, or everything in the
index with --all. Clearing an identity with no records is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "remove every record in the index")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearAll && len(args) == 0 {
		return errors.New("provide a document id or --all")
	}

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	if clearAll {
		if err := p.index.EnsureReady(cmd.Context()); err != nil {
			return fmt.Errorf("index not ready: %w", err)
		}
		if err := p.index.DeleteAll(cmd.Context()); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
		cmd.Println("Cleared every record in the index.")
		return nil
	}

	documentID := args[0]
	if err := p.indexer.Clear(cmd.Context(), documentID); err != nil {
		return fmt.Errorf("clearing %q: %w", documentID, err)
	}
	cmd.Printf("Cleared records for %q.\n", documentID)
	return nil
}
