package queue_test

import (
	"context"
	"sort"
	"testing"

	"clipsense/internal/queue"
	"clipsense/internal/testsupport"
)

func TestDeleteVideoCascadesAndReturnsPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/v")
	video, err := store.GetOrCreateVideo(ctx, "https://example.com/v", "Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}
	if err := store.UpdateVideoPath(ctx, video.ID, "/tmp/videos/v.mp4"); err != nil {
		t.Fatalf("UpdateVideoPath failed: %v", err)
	}
	if _, err := store.AddAudio(ctx, video.ID, "/tmp/audio/v-1.m4a"); err != nil {
		t.Fatalf("AddAudio failed: %v", err)
	}
	if _, err := store.AddAudio(ctx, video.ID, "/tmp/audio/v-2.m4a"); err != nil {
		t.Fatalf("AddAudio failed: %v", err)
	}
	if err := store.AddCaptionSegment(ctx, queue.CaptionSegment{VideoID: video.ID, StartTime: 1, EndTime: 2, Text: "cue"}); err != nil {
		t.Fatalf("AddCaptionSegment failed: %v", err)
	}

	paths, err := store.DeleteVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("DeleteVideo failed: %v", err)
	}
	sort.Strings(paths)
	want := []string{"/tmp/audio/v-1.m4a", "/tmp/audio/v-2.m4a", "/tmp/videos/v.mp4"}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %v", len(want), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("expected paths %v, got %v", want, paths)
		}
	}

	if got, err := store.GetVideoByID(ctx, video.ID); err != nil || got != nil {
		t.Fatalf("expected video removed, got %#v (err %v)", got, err)
	}
	segments, err := store.CaptionsForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("CaptionsForVideo failed: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected cascaded caption delete, got %d segments", len(segments))
	}
	assets, err := store.AudioForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("AudioForVideo failed: %v", err)
	}
	if len(assets) != 0 {
		t.Fatalf("expected cascaded audio delete, got %d assets", len(assets))
	}
	if entry, err := store.GetEntry(ctx, "https://example.com/v"); err != nil || entry != nil {
		t.Fatalf("expected queue entry removed, got %#v (err %v)", entry, err)
	}
}

func TestDeleteVideoWithoutFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video, err := store.GetOrCreateVideo(ctx, "https://example.com/v", "Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}

	paths, err := store.DeleteVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("DeleteVideo failed: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected no paths for caption-only video, got %v", paths)
	}
}

func TestDeleteVideoNonexistentIsNoOp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.Enqueue(t, store, "https://example.com/other")

	paths, err := store.DeleteVideo(ctx, 424242)
	if err != nil {
		t.Fatalf("DeleteVideo failed: %v", err)
	}
	if paths != nil {
		t.Fatalf("expected nil paths for missing video, got %v", paths)
	}
	entry, err := store.GetEntry(ctx, "https://example.com/other")
	if err != nil || entry == nil {
		t.Fatalf("expected unrelated entry untouched, got %#v (err %v)", entry, err)
	}
}
