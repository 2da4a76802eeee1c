package app

import (
	"context"
	"errors"
	"log"

	"quizgenius/internal/domain"
)

// ResultRepository keeps one result per quiz id; a new attempt overwrites the previous one.
type ResultRepository struct {
	store Store
}

func NewResultRepository(store Store) *ResultRepository {
	return &ResultRepository{store: store}
}

// GetAll returns every stored result keyed by quiz id, or an empty map if none are readable.
func (r *ResultRepository) GetAll(ctx context.Context) map[string]domain.QuizResult {
	results, err := loadJSON[map[string]domain.QuizResult](ctx, r.store, ResultCollectionKey)
	if err != nil {
		if !errors.Is(err, domain.ErrNoData) {
			log.Printf("result collection unavailable, starting empty: %v", err)
		}
		return map[string]domain.QuizResult{}
	}
	if results == nil {
		return map[string]domain.QuizResult{}
	}
	return results
}

func (r *ResultRepository) GetByQuizID(ctx context.Context, quizID string) (domain.QuizResult, bool) {
	result, ok := r.GetAll(ctx)[quizID]
	return result, ok
}

// loadForUpdate is GetAll for mutations; a failing backend aborts instead of starting empty.
func (r *ResultRepository) loadForUpdate(ctx context.Context) (map[string]domain.QuizResult, error) {
	results, err := loadJSONForUpdate[map[string]domain.QuizResult](ctx, r.store, ResultCollectionKey)
	var parseErr *domain.ParseError
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoData):
	case errors.As(err, &parseErr):
		log.Printf("result collection unreadable, rewriting: %v", err)
	default:
		return nil, err
	}
	if results == nil {
		results = map[string]domain.QuizResult{}
	}
	return results, nil
}

// Save inserts or overwrites the entry for result.QuizID.
func (r *ResultRepository) Save(ctx context.Context, result domain.QuizResult) error {
	results, err := r.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	results[result.QuizID] = result
	return storeJSON(ctx, r.store, ResultCollectionKey, results)
}
