package domain

import "fmt"

// ValidateGenerated checks the shape of generator output before it is stored.
func ValidateGenerated(g GeneratedQuiz) error {
	if len(g.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidQuiz)
	}
	for i, q := range g.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d has %d options", ErrInvalidQuiz, i+1, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("%w: question %d correct index %d out of range", ErrInvalidQuiz, i+1, q.CorrectIndex)
		}
	}
	return nil
}
