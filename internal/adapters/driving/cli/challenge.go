package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge [doc-id]",
	Short: "Generate comprehension questions and score answers",
	Long: `Generate questions about a document and evaluate your answers.

Without a document ID the most recently ingested document is used.
Question types: mixed, factual, analytical, inferential, evaluative.

Answers can be given with --answer N=text, one per question, or typed
in turn with --interactive.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: servicesRequired,
	RunE:        runChallenge,
}

var (
	challengeType        string
	challengeAnswers     []string
	challengeInteractive bool
)

func init() {
	challengeCmd.Flags().StringVarP(&challengeType, "type", "t", string(domain.QuestionMixed), "question type")
	challengeCmd.Flags().StringArrayVarP(&challengeAnswers, "answer", "a", nil, "answer to question N as N=text")
	challengeCmd.Flags().BoolVarP(&challengeInteractive, "interactive", "i", false, "answer each question in turn")
	rootCmd.AddCommand(challengeCmd)
}

func runChallenge(cmd *cobra.Command, args []string) error {
	if err := requireDocuments(); err != nil {
		return err
	}
	if challengeService == nil {
		return errors.New("challenge service not configured")
	}

	questionType := domain.QuestionType(strings.ToLower(strings.TrimSpace(challengeType)))
	if !questionType.IsValid() {
		return fmt.Errorf("unknown question type %q", challengeType)
	}
	answers, err := parseAnswers(challengeAnswers)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := challengeDocument(ctx, args)
	if err != nil {
		return err
	}

	questions, err := challengeService.Generate(ctx, doc.ID, questionType)
	if len(questions) == 0 {
		logger.Debug("generate questions: %v", err)
		if errors.Is(err, domain.ErrNoDocument) || errors.Is(err, domain.ErrNotFound) {
			return errors.New(domain.UserMessage(err))
		}
		return errors.New(domain.MsgQuestionsFailed)
	}
	if err != nil {
		cmd.Printf("Warning: some question types failed.\n\n")
	}

	cmd.Printf("Questions about %s:\n\n", doc.Filename)
	for i, q := range questions {
		cmd.Printf("%d. [%s, %s] %s\n", i+1, q.Type.Title(), q.Difficulty, q.Text)
	}

	for _, n := range slices.Sorted(maps.Keys(answers)) {
		if n < 1 || n > len(questions) {
			return fmt.Errorf("no question %d", n)
		}
		if err := evaluateAnswer(cmd, n, answers[n]); err != nil {
			return err
		}
	}

	if challengeInteractive {
		return answerInteractively(cmd, questions)
	}
	return nil
}

// challengeDocument opens the named document, or the most recent one.
func challengeDocument(ctx context.Context, args []string) (*domain.Document, error) {
	id := ""
	if len(args) == 1 {
		id = args[0]
	} else {
		docs, err := documentService.Catalogue(ctx)
		if err != nil {
			return nil, errors.New(domain.UserMessage(err))
		}
		latest := latestDocument(docs)
		if latest == nil {
			return nil, errors.New(domain.MsgNoDocument)
		}
		id = latest.ID
	}

	doc, err := documentService.Open(ctx, id)
	if err != nil {
		return nil, errors.New(domain.UserMessage(err))
	}
	return doc, nil
}

func latestDocument(docs []domain.Document) *domain.Document {
	var latest *domain.Document
	for i := range docs {
		if latest == nil || docs[i].CreatedAt.After(latest.CreatedAt) {
			latest = &docs[i]
		}
	}
	return latest
}

// parseAnswers parses N=text pairs keyed by 1-based question number.
// An empty text is kept and evaluated as a blank answer.
func parseAnswers(raw []string) (map[int]string, error) {
	answers := make(map[int]string, len(raw))
	for _, r := range raw {
		num, text, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("answer %q is not N=text", r)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return nil, fmt.Errorf("answer %q: question number: %w", r, err)
		}
		answers[n] = strings.TrimSpace(text)
	}
	return answers, nil
}

func answerInteractively(cmd *cobra.Command, questions []domain.Question) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	for i, q := range questions {
		cmd.Printf("\n%d. %s\nYour answer (blank to skip): ", i+1, q.Text)
		answer := readLine(reader)
		if answer == "" {
			continue
		}
		if err := evaluateAnswer(cmd, i+1, answer); err != nil {
			return err
		}
	}
	return nil
}

func evaluateAnswer(cmd *cobra.Command, n int, answer string) error {
	eval, err := challengeService.Evaluate(cmd.Context(), n-1, answer)
	if err != nil {
		return fmt.Errorf("question %d: %s", n, domain.UserMessage(err))
	}
	cmd.Printf("\nQuestion %d\n", n)
	printEvaluation(cmd, eval)
	return nil
}

func printEvaluation(cmd *cobra.Command, eval domain.Evaluation) {
	cmd.Printf("  Score:    %d/%d\n", eval.Score, domain.MaxScore)
	cmd.Printf("  Feedback: %s\n", eval.Feedback)
	printList(cmd, "Strengths", eval.Strengths)
	printList(cmd, "Improvements", eval.Improvements)
}

func printList(cmd *cobra.Command, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	cmd.Printf("  %s:\n", heading)
	for _, item := range items {
		cmd.Printf("    - %s\n", item)
	}
}
