package domain

import (
	"fmt"
	"math"
	"strings"
)

// Difficulty is the requested difficulty of a generated quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts any casing of Easy, Medium or Hard.
func ParseDifficulty(raw string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, raw)
}

// Question models an MCQ question; CorrectIndex points into Options.
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// IsCorrect reports whether option is the correct one. Malformed questions never match.
func (q Question) IsCorrect(option int) bool {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return false
	}
	return option == q.CorrectIndex
}

// Quiz is an ordered collection of questions plus metadata. Question order is exam order.
type Quiz struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	SourceTextPreview string     `json:"sourceTextPreview"`
	CreatedAt         int64      `json:"createdAt"` // epoch millis
	Difficulty        Difficulty `json:"difficulty"`
	Tags              []string   `json:"tags,omitempty"`
	Questions         []Question `json:"questions"`
}

// QuizResult is the latest completed attempt of a quiz.
type QuizResult struct {
	QuizID         string `json:"quizId"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Answers        []int  `json:"answers"`
	CompletedAt    int64  `json:"completedAt"` // epoch millis
}

// Percentage returns the rounded score percentage of the result.
func (r QuizResult) Percentage() int {
	return Percentage(r.Score, r.TotalQuestions)
}

// GenerateRequest asks a generator for QuestionCount questions about Text.
type GenerateRequest struct {
	Text          string     `json:"text"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"questionCount"`
}

// GeneratedQuiz is the payload returned by a generator, before ids and timestamps are assigned.
type GeneratedQuiz struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Questions   []Question `json:"questions"`
}

// Score counts answers matching the correct index of the question at the same position.
func Score(quiz Quiz, answers []int) int {
	score := 0
	for i, answer := range answers {
		if i >= len(quiz.Questions) {
			break
		}
		if quiz.Questions[i].IsCorrect(answer) {
			score++
		}
	}
	return score
}

// Percentage rounds score/total to a whole percent; an empty quiz is 0%.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// ScoreBand buckets a percentage for display.
type ScoreBand string

const (
	ScoreBandHigh   ScoreBand = "high"
	ScoreBandMedium ScoreBand = "medium"
	ScoreBandLow    ScoreBand = "low"
)

func BandFor(percentage int) ScoreBand {
	switch {
	case percentage >= 80:
		return ScoreBandHigh
	case percentage >= 50:
		return ScoreBandMedium
	default:
		return ScoreBandLow
	}
}
