package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"quizgenius/internal/domain"
	"github.com/spf13/cobra"
)

// NewQuizzesCmd groups library management subcommands.
func NewQuizzesCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quizzes",
		Short: "Manage the quiz library",
	}
	cmd.AddCommand(newQuizzesListCmd(configPath))
	cmd.AddCommand(newQuizzesShowCmd(configPath))
	cmd.AddCommand(newQuizzesDeleteCmd(configPath))
	cmd.AddCommand(newQuizzesGenerateCmd(configPath))
	return cmd
}

func newQuizzesListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored quizzes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBackend(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx := cmd.Context()
			results := b.service.Results(ctx)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tDIFFICULTY\tQUESTIONS\tCREATED\tLAST SCORE")
			for _, quiz := range b.service.ListQuizzes(ctx) {
				last := "-"
				if result, ok := results[quiz.ID]; ok {
					last = fmt.Sprintf("%d/%d (%d%%)", result.Score, result.TotalQuestions, result.Percentage())
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
					quiz.ID, quiz.Title, quiz.Difficulty, len(quiz.Questions),
					time.UnixMilli(quiz.CreatedAt).Format(time.DateOnly), last)
			}
			return tw.Flush()
		},
	}
}

func newQuizzesShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a quiz as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBackend(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			quiz, err := b.service.GetQuiz(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), quiz)
		},
	}
}

func newQuizzesDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a quiz from the library; its last result is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBackend(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.service.DeleteQuiz(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newQuizzesGenerateCmd(configPath *string) *cobra.Command {
	var (
		file       string
		difficulty string
		count      int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz from a text file (use - for stdin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			b, err := loadBackend(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			quiz, err := b.service.CreateQuiz(cmd.Context(), domain.GenerateRequest{
				Text:          text,
				Difficulty:    domain.Difficulty(difficulty),
				QuestionCount: count,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %q with %d questions\n", quiz.ID, quiz.Title, len(quiz.Questions))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "source text file")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyMedium), "Easy, Medium or Hard")
	cmd.Flags().IntVar(&count, "count", 5, "number of questions")
	return cmd
}

func readSource(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(raw), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
