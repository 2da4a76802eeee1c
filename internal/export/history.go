package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"quizgenius/internal/app"
	"github.com/xuri/excelize/v2"
)

const historySheet = "Sheet1"

var historyHeader = []interface{}{"Quiz ID", "Title", "Score", "Total", "Percentage", "Band", "Completed At"}

// WriteHistory writes history entries as an xlsx workbook, one row per result after a header row.
func WriteHistory(w io.Writer, entries []app.HistoryEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := historyRow(entry)
		if err := f.SetSheetRow(historySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func historyRow(entry app.HistoryEntry) []interface{} {
	title := "(deleted quiz)"
	if entry.Quiz != nil {
		title = entry.Quiz.Title
	}
	completed := time.UnixMilli(entry.Result.CompletedAt).UTC().Format(time.RFC3339)
	return []interface{}{
		entry.Result.QuizID,
		title,
		entry.Result.Score,
		entry.Result.TotalQuestions,
		strconv.Itoa(entry.Percentage) + "%",
		string(entry.Band),
		completed,
	}
}
