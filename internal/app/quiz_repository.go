package app

import (
	"context"
	"errors"
	"log"

	"quizgenius/internal/domain"
)

// QuizRepository stores the quiz collection as a single blob in a Store.
// Every mutation rewrites the whole collection.
type QuizRepository struct {
	store Store
}

func NewQuizRepository(store Store) *QuizRepository {
	return &QuizRepository{store: store}
}

// List returns all quizzes, newest first. Missing or unreadable data yields the sample set.
func (r *QuizRepository) List(ctx context.Context) []domain.Quiz {
	quizzes, err := loadJSON[[]domain.Quiz](ctx, r.store, QuizCollectionKey)
	switch {
	case err == nil:
		if quizzes == nil {
			// "null" on disk
			return []domain.Quiz{}
		}
		return quizzes
	case errors.Is(err, domain.ErrNoData):
		return SampleQuizzes()
	default:
		log.Printf("quiz collection unavailable, using samples: %v", err)
		return SampleQuizzes()
	}
}

// GetByID scans the collection for the first quiz with id.
func (r *QuizRepository) GetByID(ctx context.Context, id string) (domain.Quiz, bool) {
	for _, quiz := range r.List(ctx) {
		if quiz.ID == id {
			return quiz, true
		}
	}
	return domain.Quiz{}, false
}

// loadForUpdate is List for mutations. Missing or corrupt data still yields the samples,
// but a failing backend aborts the mutation so the stored library is never replaced.
func (r *QuizRepository) loadForUpdate(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := loadJSONForUpdate[[]domain.Quiz](ctx, r.store, QuizCollectionKey)
	var parseErr *domain.ParseError
	switch {
	case err == nil:
		if quizzes == nil {
			return []domain.Quiz{}, nil
		}
		return quizzes, nil
	case errors.Is(err, domain.ErrNoData):
		return SampleQuizzes(), nil
	case errors.As(err, &parseErr):
		log.Printf("quiz collection unreadable, rewriting from samples: %v", err)
		return SampleQuizzes(), nil
	default:
		return nil, err
	}
}

// Save prepends quiz to the collection. Duplicate ids are not rejected.
func (r *QuizRepository) Save(ctx context.Context, quiz domain.Quiz) error {
	current, err := r.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	updated := make([]domain.Quiz, 0, len(current)+1)
	updated = append(updated, quiz)
	updated = append(updated, current...)
	return storeJSON(ctx, r.store, QuizCollectionKey, updated)
}

// Delete removes every quiz with id. Deleting an unknown id rewrites the collection unchanged.
func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	current, err := r.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	updated := make([]domain.Quiz, 0, len(current))
	for _, quiz := range current {
		if quiz.ID != id {
			updated = append(updated, quiz)
		}
	}
	return storeJSON(ctx, r.store, QuizCollectionKey, updated)
}
