package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved questions and answers",
	Long: `Print the question and answer history saved with 'docqa ask --save'
or on leaving the TUI.`,
	Annotations: servicesRequired,
	RunE:        runHistory,
}

var historyFormat string

func init() {
	historyCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if qaService == nil {
		return errors.New("qa service not configured")
	}

	entries, err := qaService.SavedHistory(cmd.Context())
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	switch historyFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		if len(entries) == 0 {
			cmd.Println("No saved history.")
			return nil
		}
		for _, e := range entries {
			cmd.Printf("[%s] Q: %s\n", e.Timestamp, e.Question)
			cmd.Printf("A: %s\n", e.Answer)
			cmd.Printf("(%d sources)\n\n", e.Sources)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", historyFormat)
	}
}
