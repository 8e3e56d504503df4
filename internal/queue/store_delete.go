package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DeleteVideo removes a video and all dependent rows in one transaction and
// returns the filesystem paths whose physical deletion is the caller's
// responsibility. Caption segments and audio assets are removed by the
// foreign-key cascade; the matching queue entry is deleted by URL. Deleting a
// nonexistent video is a no-op returning an empty set.
func (s *Store) DeleteVideo(ctx context.Context, videoID int64) ([]string, error) {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		downloadPath sql.NullString
		url          string
	)
	row := tx.QueryRowContext(ctx, `SELECT download_path, url FROM videos WHERE id = ?`, videoID)
	if err := row.Scan(&downloadPath, &url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read video for delete: %w", err)
	}

	var paths []string
	if downloadPath.Valid && downloadPath.String != "" {
		paths = append(paths, downloadPath.String)
	}

	rows, err := tx.QueryContext(ctx, `SELECT audio_path FROM audio_assets WHERE video_id = ?`, videoID)
	if err != nil {
		return nil, fmt.Errorf("read audio paths for delete: %w", err)
	}
	for rows.Next() {
		var audioPath sql.NullString
		if err := rows.Scan(&audioPath); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan audio path: %w", err)
		}
		if audioPath.Valid && audioPath.String != "" {
			paths = append(paths, audioPath.String)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate audio paths: %w", err)
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, videoID); err != nil {
		return nil, fmt.Errorf("delete video: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM queue_entries WHERE url = ?`, url); err != nil {
		return nil, fmt.Errorf("delete queue entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit delete: %w", err)
	}
	return paths, nil
}
