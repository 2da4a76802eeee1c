package app

import (
	"context"
	"encoding/json"
	"fmt"

	"quizgenius/internal/domain"
)

const (
	// QuizCollectionKey holds the JSON array of quizzes, newest first.
	QuizCollectionKey = "quizgenius_library_v1"
	// ResultCollectionKey holds the JSON object of results keyed by quiz id.
	ResultCollectionKey = "quizgenius_results_v1"
)

// Store abstracts the durable key-value medium (memory, Redis, Postgres, SQLite).
type Store interface {
	// Read returns the stored bytes and whether the key exists.
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
}

// FreshReader is implemented by stores that cache reads. ReadFresh bypasses the cache so
// read-modify-write paths start from the backend's current value.
type FreshReader interface {
	ReadFresh(ctx context.Context, key string) ([]byte, bool, error)
}

// loadJSON decodes the value at key. It returns domain.ErrNoData when the key is absent
// and a *domain.ParseError when the bytes cannot be decoded.
func loadJSON[T any](ctx context.Context, store Store, key string) (T, error) {
	raw, ok, err := store.Read(ctx, key)
	return decodeJSON[T](key, raw, ok, err)
}

// loadJSONForUpdate is loadJSON for callers that will write the value back.
func loadJSONForUpdate[T any](ctx context.Context, store Store, key string) (T, error) {
	if fresh, ok := store.(FreshReader); ok {
		raw, found, err := fresh.ReadFresh(ctx, key)
		return decodeJSON[T](key, raw, found, err)
	}
	return loadJSON[T](ctx, store, key)
}

func decodeJSON[T any](key string, raw []byte, ok bool, err error) (T, error) {
	var out T
	if err != nil {
		return out, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return out, domain.ErrNoData
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, &domain.ParseError{Key: key, Err: err}
	}
	return out, nil
}

func storeJSON(ctx context.Context, store Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := store.Write(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
