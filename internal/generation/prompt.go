package generation

import (
	"fmt"

	"quizgenius/internal/domain"
)

var difficultyGuidance = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "The questions should be introductory, focusing on definitions and broad concepts. Distractors should be obviously incorrect to a careful reader.",
	domain.DifficultyMedium: "The questions should test solid understanding. Distractors should be reasonable.",
	domain.DifficultyHard:   "The questions should be challenging, focusing on nuances, specific details, or application of concepts. Distractors should be very plausible and require deep understanding to rule out.",
}

// BuildPrompt renders the model instruction for req, truncating the source text to MaxSourceChars.
func BuildPrompt(req domain.GenerateRequest) string {
	guidance, ok := difficultyGuidance[req.Difficulty]
	if !ok {
		guidance = difficultyGuidance[domain.DifficultyHard]
	}
	return fmt.Sprintf(`Generate a %s level multiple-choice quiz based on the following text.
The quiz must have exactly %d questions.
%s

Text to analyze:
%s`, req.Difficulty, req.QuestionCount, guidance, truncate(req.Text, MaxSourceChars))
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
