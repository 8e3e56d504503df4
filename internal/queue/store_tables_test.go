package queue_test

import (
	"context"
	"errors"
	"testing"

	"clipsense/internal/queue"
	"clipsense/internal/testsupport"
)

func TestDumpTableRejectsUnknownNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	for _, name := range []string{"sqlite_master", "queue_entries; DROP TABLE videos", "", "Videos"} {
		if _, err := store.DumpTable(context.Background(), name); !errors.Is(err, queue.ErrUnknownTable) {
			t.Fatalf("expected ErrUnknownTable for %q, got %v", name, err)
		}
	}
}

func TestDumpTableNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/older")
	testsupport.Enqueue(t, store, "https://example.com/newer")

	dump, err := store.DumpTable(ctx, "queue_entries")
	if err != nil {
		t.Fatalf("DumpTable failed: %v", err)
	}
	if dump.Name != "queue_entries" || len(dump.Columns) == 0 {
		t.Fatalf("unexpected dump shape: %#v", dump)
	}
	if len(dump.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(dump.Rows))
	}

	urlIdx := -1
	for i, column := range dump.Columns {
		if column == "url" {
			urlIdx = i
		}
	}
	if urlIdx == -1 {
		t.Fatalf("expected url column in %v", dump.Columns)
	}
	if dump.Rows[0][urlIdx] != "https://example.com/newer" {
		t.Fatalf("expected newest row first, got %q", dump.Rows[0][urlIdx])
	}
}

func TestDumpableTablesListsAllKnownTables(t *testing.T) {
	names := queue.DumpableTables()
	want := []string{"audio_assets", "caption_segments", "queue_entries", "videos"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	for _, name := range names {
		if _, err := store.DumpTable(context.Background(), name); err != nil {
			t.Fatalf("DumpTable(%q) failed: %v", name, err)
		}
	}
}
