package queue_test

import (
	"context"
	"errors"
	"testing"

	"clipsense/internal/queue"
	"clipsense/internal/testsupport"
)

func TestEnqueueIsInsertIfAbsent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	inserted, err := store.Enqueue(ctx, []string{"https://example.com/a", "https://example.com/b"}, queue.EnqueueOptions{SkipDownload: true})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	inserted, err = store.Enqueue(ctx, []string{"https://example.com/a"}, queue.EnqueueOptions{})
	if err != nil {
		t.Fatalf("second Enqueue failed: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected re-submission to be a no-op, got %d inserted", inserted)
	}

	entry, err := store.GetEntry(ctx, "https://example.com/a")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry == nil || entry.Status != queue.StatusQueued {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if !entry.SkipDownload {
		t.Fatal("expected skip_download option from first submission to survive")
	}
}

func TestEnqueueDoesNotRetryFailedEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/v")
	claimed := testsupport.MustClaim(t, store)
	if err := store.Fail(ctx, claimed.URL, claimed.AttemptToken, "resolver exploded"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}

	if _, err := store.Enqueue(ctx, []string{"https://example.com/v"}, queue.EnqueueOptions{}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	entry, err := store.GetEntry(ctx, "https://example.com/v")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Status != queue.StatusFailed {
		t.Fatalf("expected failed entry to stay failed, got %s", entry.Status)
	}
	if entry.StatusMessage != "resolver exploded" {
		t.Fatalf("expected failure message preserved, got %q", entry.StatusMessage)
	}
}

func TestClaimNextReturnsOldestExactlyOnce(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/first")
	testsupport.Enqueue(t, store, "https://example.com/second")

	first, err := store.ClaimNext(ctx)
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if first == nil || first.URL != "https://example.com/first" {
		t.Fatalf("expected oldest entry first, got %#v", first)
	}
	if first.Status != queue.StatusProcessing {
		t.Fatalf("expected claimed entry in processing, got %s", first.Status)
	}
	if first.AttemptToken == "" {
		t.Fatal("expected attempt token on claimed entry")
	}

	second, err := store.ClaimNext(ctx)
	if err != nil {
		t.Fatalf("second ClaimNext failed: %v", err)
	}
	if second == nil || second.URL != "https://example.com/second" {
		t.Fatalf("expected second entry, got %#v", second)
	}
	if second.AttemptToken == first.AttemptToken {
		t.Fatal("expected distinct attempt tokens per claim")
	}

	third, err := store.ClaimNext(ctx)
	if err != nil {
		t.Fatalf("third ClaimNext failed: %v", err)
	}
	if third != nil {
		t.Fatalf("expected empty queue, got %#v", third)
	}
}

func TestClaimNextEmptyQueue(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	entry, err := store.ClaimNext(context.Background())
	if err != nil {
		t.Fatalf("ClaimNext failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry from empty queue, got %#v", entry)
	}
}

func TestCompleteFencedOnAttemptToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/v")
	claimed := testsupport.MustClaim(t, store)

	err := store.Complete(ctx, claimed.URL, "stale-token", "done")
	if !errors.Is(err, queue.ErrClaimSuperseded) {
		t.Fatalf("expected ErrClaimSuperseded for wrong token, got %v", err)
	}

	if err := store.Complete(ctx, claimed.URL, claimed.AttemptToken, "Ingested 12 segments"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	entry, err := store.GetEntry(ctx, claimed.URL)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Status != queue.StatusCompleted {
		t.Fatalf("expected completed, got %s", entry.Status)
	}
	if entry.StatusMessage != "Ingested 12 segments" {
		t.Fatalf("unexpected message: %q", entry.StatusMessage)
	}
	if entry.AttemptToken != "" {
		t.Fatal("expected attempt token cleared after terminal write")
	}

	// A second terminal write for the same claim must not succeed.
	err = store.Fail(ctx, claimed.URL, claimed.AttemptToken, "late failure")
	if !errors.Is(err, queue.ErrClaimSuperseded) {
		t.Fatalf("expected ErrClaimSuperseded after terminal state, got %v", err)
	}
}

func TestFailRecordsMessage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/v")
	claimed := testsupport.MustClaim(t, store)

	if err := store.Fail(ctx, claimed.URL, claimed.AttemptToken, "no captions parsed"); err != nil {
		t.Fatalf("Fail failed: %v", err)
	}
	entry, err := store.GetEntry(ctx, claimed.URL)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Status != queue.StatusFailed || entry.StatusMessage != "no captions parsed" {
		t.Fatalf("unexpected entry after fail: %#v", entry)
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/a", "https://example.com/b")
	for i := 0; i < 2; i++ {
		claimed := testsupport.MustClaim(t, store)
		if err := store.Fail(ctx, claimed.URL, claimed.AttemptToken, "boom"); err != nil {
			t.Fatalf("Fail failed: %v", err)
		}
	}

	count, err := store.RetryFailed(ctx, "https://example.com/b")
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 retried, got %d", count)
	}
	entry, err := store.GetEntry(ctx, "https://example.com/b")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.Status != queue.StatusQueued {
		t.Fatalf("expected requeued entry, got %s", entry.Status)
	}

	count, err = store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed all failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected remaining failed entry retried, got %d", count)
	}
}

func TestListEntriesJoinsVideos(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/resolved")
	testsupport.Enqueue(t, store, "https://example.com/pending")

	video, err := store.GetOrCreateVideo(ctx, "https://example.com/resolved", "Resolved Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}

	views, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	byURL := make(map[string]*queue.EntryView, len(views))
	for _, view := range views {
		byURL[view.URL] = view
	}
	resolved := byURL["https://example.com/resolved"]
	if resolved == nil || resolved.VideoID == nil || *resolved.VideoID != video.ID {
		t.Fatalf("expected joined video id, got %#v", resolved)
	}
	if resolved.Title != "Resolved Title" {
		t.Fatalf("expected joined title, got %q", resolved.Title)
	}
	pending := byURL["https://example.com/pending"]
	if pending == nil || pending.VideoID != nil || pending.Title != "" {
		t.Fatalf("expected unresolved entry without video, got %#v", pending)
	}
}

func TestStatsAndHealth(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/a", "https://example.com/b", "https://example.com/c")
	claimed := testsupport.MustClaim(t, store)
	if err := store.Complete(ctx, claimed.URL, claimed.AttemptToken, "done"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	testsupport.MustClaim(t, store)

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 3 || health.Queued != 1 || health.Processing != 1 || health.Completed != 1 || health.Failed != 0 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  queue.Status
		ok    bool
	}{
		{"queued", queue.StatusQueued, true},
		{" Processing ", queue.StatusProcessing, true},
		{"COMPLETED", queue.StatusCompleted, true},
		{"failed", queue.StatusFailed, true},
		{"pending", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := queue.ParseStatus(tc.input)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
