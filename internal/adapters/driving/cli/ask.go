package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valigence-labs/valigence-cli/internal/core/ports/driving"
	"github.com/valigence-labs/valigence-cli/internal/core/services"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Embeds the question, retrieves the closest chunks from the vector
index and asks the LLM to answer from them. Run 'valigence index' or
'valigence validate' first so there is something to retrieve.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	var answerer driving.AnswerService = p.answer
	if askTopK > 0 {
		// Flag overrides the configured retrieval width for this run only.
		svc := services.NewAnswerService(p.embedder, p.index, p.llm, askTopK)
		svc.SetHistoryStore(historyStore)
		svc.SetPromptStore(promptStore)
		answerer = svc
	}

	answer, err := answerer.Answer(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	cmd.Println(answer)
	return nil
}
