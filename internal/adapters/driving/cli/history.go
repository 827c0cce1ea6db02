package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyLimit       int
	historyValidations bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded questions and validation runs",
	Long: `Shows recent question/answer exchanges, or validation runs with
--validations. History is recorded automatically by 'ask', 'chat' and
'validate'.`,
	RunE: runHistory,
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all recorded history",
	RunE:  runHistoryPurge,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	historyCmd.Flags().BoolVar(&historyValidations, "validations", false, "show validation runs instead of exchanges")
	historyCmd.AddCommand(historyPurgeCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history store not available")
	}

	if historyValidations {
		return showValidationHistory(cmd)
	}
	return showExchangeHistory(cmd)
}

func showExchangeHistory(cmd *cobra.Command) error {
	exchanges, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(exchanges) == 0 {
		cmd.Println("No recorded exchanges.")
		return nil
	}

	for _, e := range exchanges {
		cmd.Printf("[%s] Q: %s\n", e.AskedAt.Local().Format("2006-01-02 15:04"), e.Question)
		cmd.Printf("           A: %s\n", firstLine(e.Answer))
		cmd.Println()
	}
	return nil
}

func showValidationHistory(cmd *cobra.Command) error {
	reports, err := historyService.RecentValidations(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("loading validation history: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No recorded validation runs.")
		return nil
	}

	for _, r := range reports {
		verdict := "complete"
		if r.Comparison.IsIncomplete {
			verdict = fmt.Sprintf("%d missing", len(r.Comparison.MissingRoles))
		}
		cmd.Printf("[%s] %s: %d required, %d found, %s\n",
			r.RanAt.Local().Format("2006-01-02 15:04"),
			r.DocumentID, len(r.RequiredRoles), len(r.FoundRoles), verdict)
		if r.Comparison.IsIncomplete {
			cmd.Printf("           missing: %s\n", strings.Join(r.Comparison.MissingRoles, ", "))
		}
	}
	return nil
}

func runHistoryPurge(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history store not available")
	}

	if err := historyService.Purge(cmd.Context()); err != nil {
		return fmt.Errorf("purging history: %w", err)
	}
	cmd.Println("History purged.")
	return nil
}

// firstLine truncates multi-line answers for the listing.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
