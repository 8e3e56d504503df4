package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const entryColumns = "id, url, status, status_message, skip_download, attempt_token, created_at, updated_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id            int64
		url           string
		statusStr     string
		statusMessage sql.NullString
		skipDownload  int
		attemptToken  sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&id,
		&url,
		&statusStr,
		&statusMessage,
		&skipDownload,
		&attemptToken,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:            id,
		URL:           url,
		Status:        Status(statusStr),
		StatusMessage: statusMessage.String,
		SkipDownload:  skipDownload != 0,
		AttemptToken:  attemptToken.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		entry.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		entry.UpdatedAt = updated
	}
	return entry, nil
}

// Enqueue inserts each URL with status queued unless a row for that URL
// already exists; existing rows are left untouched regardless of their
// status. Returns the number of rows actually inserted.
func (s *Store) Enqueue(ctx context.Context, urls []string, opts EnqueueOptions) (int64, error) {
	now := timestamp(time.Now())
	var inserted int64
	for _, url := range urls {
		res, err := s.execWithRetry(
			ctx,
			`INSERT OR IGNORE INTO queue_entries (url, status, skip_download, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?)`,
			url,
			StatusQueued,
			boolToInt(opts.SkipDownload),
			now,
			now,
		)
		if err != nil {
			return inserted, fmt.Errorf("enqueue %q: %w", url, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("rows affected: %w", err)
		}
		inserted += affected
	}
	return inserted, nil
}

// ClaimNext atomically claims the oldest queued entry: a single conditional
// UPDATE moves it to processing and stamps a fresh attempt token, so two
// concurrent claimers can never both observe the same row in queued state.
// Returns nil when no queued entry exists.
func (s *Store) ClaimNext(ctx context.Context) (*Entry, error) {
	token := uuid.NewString()
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries
         SET status = ?, attempt_token = ?, updated_at = ?
         WHERE id = (
             SELECT id FROM queue_entries WHERE status = ? ORDER BY created_at, id LIMIT 1
         ) AND status = ?`,
		StatusProcessing,
		token,
		timestamp(time.Now()),
		StatusQueued,
		StatusQueued,
	)
	if err != nil {
		return nil, fmt.Errorf("claim next entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+entryColumns+` FROM queue_entries WHERE attempt_token = ?`, token)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("read claimed entry: %w", err)
	}
	return entry, nil
}

// Complete records a successful terminal status for a claimed entry.
func (s *Store) Complete(ctx context.Context, url, token, message string) error {
	return s.finish(ctx, url, token, StatusCompleted, message)
}

// Fail records a failed terminal status for a claimed entry.
func (s *Store) Fail(ctx context.Context, url, token, message string) error {
	return s.finish(ctx, url, token, StatusFailed, message)
}

// finish writes a terminal status fenced on the claim's attempt token. A
// worker whose claim was reaped (and possibly reclaimed by a newer attempt)
// matches zero rows and gets ErrClaimSuperseded instead of overwriting the
// newer attempt's state.
func (s *Store) finish(ctx context.Context, url, token string, status Status, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries
         SET status = ?, status_message = ?, attempt_token = NULL, updated_at = ?
         WHERE url = ? AND status = ? AND attempt_token = ?`,
		status,
		nullableString(message),
		timestamp(time.Now()),
		url,
		StatusProcessing,
		token,
	)
	if err != nil {
		return fmt.Errorf("mark entry %s: %w", status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark entry %s for %q: %w", status, url, ErrClaimSuperseded)
	}
	return nil
}

// ReapStale resets processing entries whose updated_at is strictly older than
// now minus timeout back to queued. This is the sole recovery path for a
// worker that crashed mid-job; it is idempotent and safe to run concurrently
// with normal claims.
func (s *Store) ReapStale(ctx context.Context, timeout time.Duration) (int64, error) {
	cutoff := time.Now().Add(-timeout)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE queue_entries
         SET status = ?, status_message = ?, attempt_token = NULL, updated_at = ?
         WHERE status = ? AND updated_at < ?`,
		StatusQueued,
		StaleRequeueMessage,
		timestamp(time.Now()),
		StatusProcessing,
		timestamp(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("reap stale entries: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed entries back to queued for reprocessing. With no
// URLs given, every failed entry is retried.
func (s *Store) RetryFailed(ctx context.Context, urls ...string) (int64, error) {
	now := timestamp(time.Now())
	if len(urls) == 0 {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_entries
             SET status = ?, status_message = 'Retry requested', updated_at = ?
             WHERE status = ?`,
			StatusQueued,
			now,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed entries: %w", err)
		}
		return res.RowsAffected()
	}

	var retried int64
	for _, url := range urls {
		res, err := s.execWithRetry(
			ctx,
			`UPDATE queue_entries
             SET status = ?, status_message = 'Retry requested', updated_at = ?
             WHERE url = ? AND status = ?`,
			StatusQueued,
			now,
			url,
			StatusFailed,
		)
		if err != nil {
			return retried, fmt.Errorf("retry entry %q: %w", url, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return retried, fmt.Errorf("rows affected: %w", err)
		}
		retried += affected
	}
	return retried, nil
}

// GetEntry fetches a queue entry by URL.
func (s *Store) GetEntry(ctx context.Context, url string) (*Entry, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+entryColumns+` FROM queue_entries WHERE url = ?`, url)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// ListEntries returns all queue entries joined with their resolved video
// title and id, ordered newest-submission-first.
func (s *Store) ListEntries(ctx context.Context) ([]*EntryView, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT q.id, q.url, q.status, q.status_message, q.skip_download, q.attempt_token,
                q.created_at, q.updated_at, v.id, v.title
         FROM queue_entries q
         LEFT JOIN videos v ON v.url = q.url
         ORDER BY q.created_at DESC, q.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var views []*EntryView
	for rows.Next() {
		var (
			view          EntryView
			statusStr     string
			statusMessage sql.NullString
			skipDownload  int
			attemptToken  sql.NullString
			createdRaw    string
			updatedRaw    string
			videoID       sql.NullInt64
			title         sql.NullString
		)
		if err := rows.Scan(
			&view.ID,
			&view.URL,
			&statusStr,
			&statusMessage,
			&skipDownload,
			&attemptToken,
			&createdRaw,
			&updatedRaw,
			&videoID,
			&title,
		); err != nil {
			return nil, fmt.Errorf("scan entry view: %w", err)
		}
		view.Status = Status(statusStr)
		view.StatusMessage = statusMessage.String
		view.SkipDownload = skipDownload != 0
		view.AttemptToken = attemptToken.String
		if created, err := parseTimeString(createdRaw); err == nil {
			view.CreatedAt = created
		}
		if updated, err := parseTimeString(updatedRaw); err == nil {
			view.UpdatedAt = updated
		}
		if videoID.Valid {
			id := videoID.Int64
			view.VideoID = &id
		}
		view.Title = title.String
		views = append(views, &view)
	}
	return views, rows.Err()
}

// Stats returns a count of entries grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT status, COUNT(1) FROM queue_entries GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusQueued:
			health.Queued += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusFailed:
			health.Failed += count
		}
	}
	return health, nil
}
