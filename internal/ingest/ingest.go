package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clipsense/internal/logging"
	"clipsense/internal/queue"
	"clipsense/internal/sentiment"
	"clipsense/internal/subtitles"
)

// Failure modes callers use to pick a status message. An empty transcript
// means the source had no caption data at all; an unparseable one had data
// but no block survived parsing.
var (
	ErrEmptyTranscript       = errors.New("caption track produced no data")
	ErrUnparseableTranscript = errors.New("caption track could not be parsed")
)

// Outcome reports what one ingestion run persisted.
type Outcome struct {
	Segments int
	Skipped  int
}

// Ingestor parses a raw subtitle blob, scores each cue, and persists the
// scored segments for a video.
type Ingestor struct {
	store  *queue.Store
	scorer sentiment.Scorer
	logger *slog.Logger
}

// New builds an Ingestor. A nil logger disables logging.
func New(store *queue.Store, scorer sentiment.Scorer, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ingestor{store: store, scorer: scorer, logger: logger}
}

// Run replaces the video's caption segments with the scored cues parsed from
// blob. Existing segments are cleared first so re-processing after a stale
// requeue never duplicates cues. Segments are persisted one by one; on a
// persistence error the rows written so far stay visible for diagnosis and
// the caller records the job as failed.
func (i *Ingestor) Run(ctx context.Context, videoID int64, blob string) (Outcome, error) {
	if strings.TrimSpace(blob) == "" {
		return Outcome{}, ErrEmptyTranscript
	}

	cues, skipped := subtitles.Parse(blob)
	if skipped > 0 {
		i.logger.Warn("skipped malformed caption cues",
			logging.Int64(logging.FieldVideoID, videoID),
			logging.Int("skipped", skipped))
	}
	if len(cues) == 0 {
		return Outcome{Skipped: skipped}, fmt.Errorf("%w (%d malformed cues)", ErrUnparseableTranscript, skipped)
	}

	if _, err := i.store.ClearCaptionSegments(ctx, videoID); err != nil {
		return Outcome{Skipped: skipped}, fmt.Errorf("clear previous segments: %w", err)
	}

	outcome := Outcome{Skipped: skipped}
	for _, cue := range cues {
		result := i.scorer.Score(cue.Text)
		segment := queue.CaptionSegment{
			VideoID:        videoID,
			StartTime:      cue.Start,
			EndTime:        cue.End,
			Text:           cue.Text,
			SentimentLabel: result.Label,
			SentimentScore: result.Score,
		}
		if err := i.store.AddCaptionSegment(ctx, segment); err != nil {
			return outcome, fmt.Errorf("persist segment at %.3fs: %w", cue.Start, err)
		}
		outcome.Segments++
	}

	i.logger.Info("transcript ingested",
		logging.Int64(logging.FieldVideoID, videoID),
		logging.Int("segments", outcome.Segments),
		logging.Int("skipped", outcome.Skipped))
	return outcome, nil
}
