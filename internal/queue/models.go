package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue entry.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// StaleRequeueMessage is the status message set when a stale entry is requeued.
const StaleRequeueMessage = "Requeued after stale processing timeout"

var allStatuses = []Status{
	StatusQueued,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends automatic processing.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Entry represents a queue entry persisted in SQLite.
type Entry struct {
	ID            int64
	URL           string
	Status        Status
	StatusMessage string
	SkipDownload  bool
	AttemptToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EnqueueOptions carries per-submission options persisted with each entry.
type EnqueueOptions struct {
	SkipDownload bool
}

// Video represents a URL resolved to a title, with an optional local file.
type Video struct {
	ID           int64
	URL          string
	Title        string
	DownloadPath string
	ProcessedAt  time.Time
}

// AudioAsset is an audio-only capture linked to a video.
type AudioAsset struct {
	ID        int64
	VideoID   int64
	AudioPath string
}

// CaptionSegment is one scored subtitle cue belonging to a video.
type CaptionSegment struct {
	ID             int64
	VideoID        int64
	StartTime      float64
	EndTime        float64
	Text           string
	SentimentLabel string
	SentimentScore float64
}

// EntryView joins a queue entry with its resolved video, when one exists.
type EntryView struct {
	Entry
	VideoID *int64
	Title   string
}

// HealthSummary describes aggregated queue counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Queued     int
	Processing int
	Completed  int
	Failed     int
}

// DatabaseHealth captures diagnostic information about the queue database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalEntries     int
	Error            string
}
