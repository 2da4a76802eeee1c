package memory

import (
	"context"
	"testing"
)

func TestStoreCopiesValues(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if _, ok, err := store.Read(ctx, "k"); ok || err != nil {
		t.Fatalf("expected empty store, got ok=%v err=%v", ok, err)
	}

	value := []byte("hello")
	if err := store.Write(ctx, "k", value); err != nil {
		t.Fatalf("write: %v", err)
	}
	value[0] = 'j'

	got, ok, err := store.Read(ctx, "k")
	if err != nil || !ok || string(got) != "hello" {
		t.Fatalf("expected hello, got %q ok=%v err=%v", got, ok, err)
	}
}
