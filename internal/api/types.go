package api

import (
	"time"

	"clipsense/internal/queue"
)

// QueueEntry is the wire form of a queue entry joined with its video.
type QueueEntry struct {
	ID            int64  `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	StatusMessage string `json:"status_message,omitempty"`
	SkipDownload  bool   `json:"skip_download"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	VideoID       *int64 `json:"video_id,omitempty"`
	Title         string `json:"title,omitempty"`
}

// CaptionSegment is the wire form of one scored caption cue.
type CaptionSegment struct {
	ID             int64   `json:"id"`
	VideoID        int64   `json:"video_id"`
	StartTime      float64 `json:"start_time"`
	EndTime        float64 `json:"end_time"`
	Text           string  `json:"text"`
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"`
}

// QueueHealth is the wire form of aggregated queue counts.
type QueueHealth struct {
	Total      int `json:"total"`
	Queued     int `json:"queued"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// DaemonStatus reports runtime state for the status endpoint.
type DaemonStatus struct {
	Running       bool        `json:"running"`
	WorkerRunning bool        `json:"worker_running"`
	QueueDBPath   string      `json:"queue_db_path"`
	LockFilePath  string      `json:"lock_file_path"`
	Queue         QueueHealth `json:"queue"`
}

// QueueListResponse wraps the entry list endpoint payload.
type QueueListResponse struct {
	Entries []QueueEntry `json:"entries"`
}

// CaptionListResponse wraps the caption list endpoint payload.
type CaptionListResponse struct {
	VideoID  int64            `json:"video_id"`
	Segments []CaptionSegment `json:"segments"`
}

// EnqueueRequest is the body of a queue submission.
type EnqueueRequest struct {
	URLs         []string `json:"urls"`
	SkipDownload bool     `json:"skip_download"`
}

// EnqueueResponse reports how many submissions were new.
type EnqueueResponse struct {
	Submitted int   `json:"submitted"`
	Inserted  int64 `json:"inserted"`
}

// DeleteResponse returns the filesystem paths the caller must unlink.
type DeleteResponse struct {
	VideoID int64    `json:"video_id"`
	Deleted bool     `json:"deleted"`
	Paths   []string `json:"paths"`
}

// TableDump is the wire form of a raw table snapshot.
type TableDump struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// FromEntryView converts a store view to its wire form.
func FromEntryView(view *queue.EntryView) QueueEntry {
	return QueueEntry{
		ID:            view.ID,
		URL:           view.URL,
		Status:        string(view.Status),
		StatusMessage: view.StatusMessage,
		SkipDownload:  view.SkipDownload,
		CreatedAt:     formatTime(view.CreatedAt),
		UpdatedAt:     formatTime(view.UpdatedAt),
		VideoID:       view.VideoID,
		Title:         view.Title,
	}
}

// FromEntryViews converts a slice of store views.
func FromEntryViews(views []*queue.EntryView) []QueueEntry {
	entries := make([]QueueEntry, 0, len(views))
	for _, view := range views {
		entries = append(entries, FromEntryView(view))
	}
	return entries
}

// FromCaptionSegment converts a store segment to its wire form.
func FromCaptionSegment(segment *queue.CaptionSegment) CaptionSegment {
	return CaptionSegment{
		ID:             segment.ID,
		VideoID:        segment.VideoID,
		StartTime:      segment.StartTime,
		EndTime:        segment.EndTime,
		Text:           segment.Text,
		SentimentLabel: segment.SentimentLabel,
		SentimentScore: segment.SentimentScore,
	}
}

// FromHealthSummary converts aggregated queue counts to their wire form.
func FromHealthSummary(health queue.HealthSummary) QueueHealth {
	return QueueHealth{
		Total:      health.Total,
		Queued:     health.Queued,
		Processing: health.Processing,
		Completed:  health.Completed,
		Failed:     health.Failed,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
