package cli

import (
	"github.com/spf13/cobra"

	"github.com/valigence-labs/valigence-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat with the indexed documents",
	Long: `Opens an interactive terminal session for asking questions about the
indexed documents. Answers come from the same retrieval pipeline as
'valigence ask'; exchanges are recorded in history.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	app := tui.New(p.answer, historyService)
	return app.Run()
}
