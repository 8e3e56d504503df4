package api

import (
	"context"
	"strings"

	"clipsense/internal/queue"
)

// QueueService exposes the queue operations the HTTP API and CLI share,
// returning wire DTOs instead of store models.
type QueueService struct {
	store *queue.Store
}

// NewQueueService constructs a QueueService around the provided store.
func NewQueueService(store *queue.Store) *QueueService {
	if store == nil {
		return nil
	}
	return &QueueService{store: store}
}

// List returns all queue entries joined with their videos, newest first.
func (s *QueueService) List(ctx context.Context) ([]QueueEntry, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	views, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	return FromEntryViews(views), nil
}

// Enqueue normalizes and submits URLs. Blank lines are dropped; duplicates of
// existing entries are no-ops.
func (s *QueueService) Enqueue(ctx context.Context, urls []string, skipDownload bool) (EnqueueResponse, error) {
	normalized := NormalizeURLs(urls)
	if s == nil || s.store == nil || len(normalized) == 0 {
		return EnqueueResponse{Submitted: len(normalized)}, nil
	}
	inserted, err := s.store.Enqueue(ctx, normalized, queue.EnqueueOptions{SkipDownload: skipDownload})
	if err != nil {
		return EnqueueResponse{}, err
	}
	return EnqueueResponse{Submitted: len(normalized), Inserted: inserted}, nil
}

// Captions returns the scored segments for a video ordered by start time.
func (s *QueueService) Captions(ctx context.Context, videoID int64) ([]CaptionSegment, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	segments, err := s.store.CaptionsForVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	out := make([]CaptionSegment, 0, len(segments))
	for _, segment := range segments {
		out = append(out, FromCaptionSegment(segment))
	}
	return out, nil
}

// Delete removes a video and its dependent rows, returning the filesystem
// paths the caller must unlink. A missing video is reported, not an error.
func (s *QueueService) Delete(ctx context.Context, videoID int64) (DeleteResponse, error) {
	if s == nil || s.store == nil {
		return DeleteResponse{VideoID: videoID}, nil
	}
	video, err := s.store.GetVideoByID(ctx, videoID)
	if err != nil {
		return DeleteResponse{}, err
	}
	if video == nil {
		return DeleteResponse{VideoID: videoID, Deleted: false}, nil
	}
	paths, err := s.store.DeleteVideo(ctx, videoID)
	if err != nil {
		return DeleteResponse{}, err
	}
	return DeleteResponse{VideoID: videoID, Deleted: true, Paths: paths}, nil
}

// Health returns aggregated queue counts.
func (s *QueueService) Health(ctx context.Context) (QueueHealth, error) {
	if s == nil || s.store == nil {
		return QueueHealth{}, nil
	}
	health, err := s.store.Health(ctx)
	if err != nil {
		return QueueHealth{}, err
	}
	return FromHealthSummary(health), nil
}

// DumpTable returns a raw snapshot of one enumerated table.
func (s *QueueService) DumpTable(ctx context.Context, name string) (*TableDump, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	dump, err := s.store.DumpTable(ctx, name)
	if err != nil {
		return nil, err
	}
	return &TableDump{Name: dump.Name, Columns: dump.Columns, Rows: dump.Rows}, nil
}

// NormalizeURLs trims whitespace and drops empty and duplicate lines while
// preserving first-seen order.
func NormalizeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	normalized := make([]string, 0, len(urls))
	for _, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
