package ingest_test

import (
	"context"
	"errors"
	"testing"

	"clipsense/internal/ingest"
	"clipsense/internal/sentiment"
	"clipsense/internal/testsupport"
)

func TestRunPersistsScoredSegments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video, err := store.GetOrCreateVideo(ctx, "https://example.com/v", "Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}

	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), nil)
	outcome, err := ingestor.Run(ctx, video.ID, testsupport.SampleSubtitleBlob)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome.Segments != 2 || outcome.Skipped != 1 {
		t.Fatalf("unexpected outcome: %#v", outcome)
	}

	segments, err := store.CaptionsForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("CaptionsForVideo failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 persisted segments, got %d", len(segments))
	}
	if segments[0].Text != "I am happy" || segments[0].SentimentLabel != sentiment.LabelPositive || segments[0].SentimentScore != 0.9 {
		t.Fatalf("unexpected first segment: %#v", segments[0])
	}
	if segments[1].Text != "I am sad" || segments[1].SentimentLabel != sentiment.LabelNegative || segments[1].SentimentScore != -0.8 {
		t.Fatalf("unexpected second segment: %#v", segments[1])
	}
}

func TestRunReplacesPreviousSegments(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video, err := store.GetOrCreateVideo(ctx, "https://example.com/v", "Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}

	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), nil)
	if _, err := ingestor.Run(ctx, video.ID, testsupport.SampleSubtitleBlob); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	// A second run after a stale requeue must not duplicate cues.
	if _, err := ingestor.Run(ctx, video.ID, testsupport.SampleSubtitleBlob); err != nil {
		t.Fatalf("second Run failed: %v", err)
	}

	segments, err := store.CaptionsForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("CaptionsForVideo failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments after re-ingestion, got %d", len(segments))
	}
}

func TestRunEmptyBlob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), nil)
	_, err := ingestor.Run(context.Background(), 1, "   \n ")
	if !errors.Is(err, ingest.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}
}

func TestRunUnparseableBlob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	video, err := store.GetOrCreateVideo(ctx, "https://example.com/v", "Title")
	if err != nil {
		t.Fatalf("GetOrCreateVideo failed: %v", err)
	}

	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), nil)
	outcome, err := ingestor.Run(ctx, video.ID, "1\nnot-a-timestamp\ngarbage\n\n2\nalso broken\n")
	if !errors.Is(err, ingest.ErrUnparseableTranscript) {
		t.Fatalf("expected ErrUnparseableTranscript, got %v", err)
	}
	if outcome.Skipped != 2 {
		t.Fatalf("expected 2 skipped cues reported, got %d", outcome.Skipped)
	}

	segments, err := store.CaptionsForVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("CaptionsForVideo failed: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no persisted segments, got %d", len(segments))
	}
}
