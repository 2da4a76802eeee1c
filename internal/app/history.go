package app

import (
	"context"
	"sort"

	"quizgenius/internal/domain"
)

// HistoryEntry pairs a stored result with its quiz. Quiz is nil once the quiz was deleted.
type HistoryEntry struct {
	Result     domain.QuizResult `json:"result"`
	Quiz       *domain.Quiz      `json:"quiz,omitempty"`
	Percentage int               `json:"percentage"`
	Band       domain.ScoreBand  `json:"band"`
}

// History lists every stored result, most recently completed first.
func (s *QuizService) History(ctx context.Context) []HistoryEntry {
	results := s.results.GetAll(ctx)
	quizzes := s.quizzes.List(ctx)

	byID := make(map[string]domain.Quiz, len(quizzes))
	for i := len(quizzes) - 1; i >= 0; i-- {
		// first match wins, same as GetByID
		byID[quizzes[i].ID] = quizzes[i]
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, result := range results {
		entry := HistoryEntry{
			Result:     result,
			Percentage: result.Percentage(),
		}
		entry.Band = domain.BandFor(entry.Percentage)
		if quiz, ok := byID[result.QuizID]; ok {
			quiz := quiz
			entry.Quiz = &quiz
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Result.CompletedAt != entries[j].Result.CompletedAt {
			return entries[i].Result.CompletedAt > entries[j].Result.CompletedAt
		}
		return entries[i].Result.QuizID < entries[j].Result.QuizID
	})
	return entries
}
