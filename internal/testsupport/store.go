package testsupport

import (
	"context"
	"testing"

	"clipsense/internal/config"
	"clipsense/internal/queue"
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

// Enqueue adds URLs for tests using the provided store.
func Enqueue(t testing.TB, store *queue.Store, urls ...string) {
	t.Helper()

	if _, err := store.Enqueue(context.Background(), urls, queue.EnqueueOptions{}); err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
}

// MustClaim claims the next queue entry and fails the test when the queue is empty.
func MustClaim(t testing.TB, store *queue.Store) *queue.Entry {
	t.Helper()

	entry, err := store.ClaimNext(context.Background())
	if err != nil {
		t.Fatalf("store.ClaimNext: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a queued entry to claim")
	}
	return entry
}
