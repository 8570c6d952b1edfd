package testsupport

import (
	"context"
	"testing"

	"quorum/internal/config"
	"quorum/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewMeeting creates a new run for tests using the provided store.
func NewMeeting(t testing.TB, store *queue.Store, title, audioPath string) *queue.Item {
	t.Helper()

	item, err := store.NewMeeting(context.Background(), "", title, audioPath, nil)
	if err != nil {
		t.Fatalf("store.NewMeeting: %v", err)
	}
	return item
}
