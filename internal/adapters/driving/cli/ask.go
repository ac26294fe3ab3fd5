package cli

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieve the chunks most similar to the question and answer from them.
The answer cites the chunks it was given.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: servicesRequired,
	RunE:        runAsk,
}

var (
	askK    int
	askSave bool
	askJSON bool
)

func init() {
	askCmd.Flags().IntVarP(&askK, "top-k", "k", 0, "number of chunks to retrieve (default from settings)")
	askCmd.Flags().BoolVar(&askSave, "save", false, "append the answer to the saved history")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if qaService == nil {
		return errors.New("qa service not configured")
	}

	question := strings.Join(args, " ")
	answer, err := qaService.Ask(cmd.Context(), question, askK)
	if err != nil {
		logger.Debug("ask failed: %v", err)
		return errors.New(domain.UserMessage(err))
	}

	if askJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(answer); err != nil {
			return err
		}
	} else {
		printAnswer(cmd, answer)
	}

	if askSave {
		if err := qaService.Save(cmd.Context()); err != nil {
			return errors.New(domain.UserMessage(err))
		}
		if !askJSON {
			cmd.Println("Saved to history.")
		}
	}
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Printf("Q: %s\n", answer.Question)
	cmd.Printf("A: %s\n", answer.Text)
	if len(answer.Sources) == 0 {
		return
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range answer.Sources {
		cmd.Printf("  %d. %s (chunk %d, score %.2f)\n",
			i+1, src.Chunk.Filename(), src.Chunk.ChunkIndex(), src.Chunk.Score)
		cmd.Printf("     %s\n", src.Preview)
	}
}
