package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"quizgenius/internal/export"
	"github.com/spf13/cobra"
)

// NewHistoryCmd prints stored results or exports them to an xlsx workbook.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest result of every quiz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBackend(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer b.Close()

			entries := b.service.History(cmd.Context())
			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return err
				}
				if err := export.WriteHistory(f, entries); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(entries), xlsxPath)
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "QUIZ\tTITLE\tSCORE\tBAND\tCOMPLETED")
			for _, entry := range entries {
				title := "(deleted)"
				if entry.Quiz != nil {
					title = entry.Quiz.Title
				}
				fmt.Fprintf(tw, "%s\t%s\t%d/%d (%d%%)\t%s\t%s\n",
					entry.Result.QuizID, title, entry.Result.Score, entry.Result.TotalQuestions,
					entry.Percentage, entry.Band, time.UnixMilli(entry.Result.CompletedAt).Format(time.DateTime))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write history to this xlsx file instead of stdout")
	return cmd
}
