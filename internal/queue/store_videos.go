package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const videoColumns = "id, url, title, download_path, processed_at"

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		id           int64
		url          string
		title        string
		downloadPath sql.NullString
		processedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &url, &title, &downloadPath, &processedRaw); err != nil {
		return nil, err
	}
	video := &Video{
		ID:           id,
		URL:          url,
		Title:        title,
		DownloadPath: downloadPath.String,
	}
	if processedRaw.Valid {
		if processed, err := parseTimeString(processedRaw.String); err == nil {
			video.ProcessedAt = processed
		}
	}
	return video, nil
}

// GetVideoByID fetches a video by identifier.
func (s *Store) GetVideoByID(ctx context.Context, id int64) (*Video, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// GetOrCreateVideo returns the video for a URL, inserting it when absent.
// Repeated processing of the same URL (after a stale requeue) resolves to the
// same stable row rather than a duplicate.
func (s *Store) GetOrCreateVideo(ctx context.Context, url, title string) (*Video, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE url = ?`, url)
	video, err := scanVideo(row)
	if err == nil {
		return video, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get video by url: %w", err)
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (url, title, download_path, processed_at) VALUES (?, ?, NULL, ?)`,
		url,
		title,
		timestamp(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetVideoByID(ctx, id)
}

// UpdateVideoPath records the local path of a downloaded video file.
func (s *Store) UpdateVideoPath(ctx context.Context, videoID int64, downloadPath string) error {
	if _, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET download_path = ? WHERE id = ?`,
		nullableString(downloadPath),
		videoID,
	); err != nil {
		return fmt.Errorf("update video path: %w", err)
	}
	return nil
}

// AddAudio records an audio-only capture for a video.
func (s *Store) AddAudio(ctx context.Context, videoID int64, audioPath string) (*AudioAsset, error) {
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO audio_assets (video_id, audio_path) VALUES (?, ?)`,
		videoID,
		audioPath,
	)
	if err != nil {
		return nil, fmt.Errorf("insert audio asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &AudioAsset{ID: id, VideoID: videoID, AudioPath: audioPath}, nil
}

// AudioForVideo returns all audio assets linked to a video.
func (s *Store) AudioForVideo(ctx context.Context, videoID int64) ([]*AudioAsset, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, video_id, audio_path FROM audio_assets WHERE video_id = ? ORDER BY id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("query audio assets: %w", err)
	}
	defer rows.Close()

	var assets []*AudioAsset
	for rows.Next() {
		asset := &AudioAsset{}
		if err := rows.Scan(&asset.ID, &asset.VideoID, &asset.AudioPath); err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

// AddCaptionSegment persists one scored subtitle cue.
func (s *Store) AddCaptionSegment(ctx context.Context, segment CaptionSegment) error {
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO caption_segments (video_id, start_time, end_time, text, sentiment_label, sentiment_score)
         VALUES (?, ?, ?, ?, ?, ?)`,
		segment.VideoID,
		segment.StartTime,
		segment.EndTime,
		segment.Text,
		segment.SentimentLabel,
		segment.SentimentScore,
	); err != nil {
		return fmt.Errorf("insert caption segment: %w", err)
	}
	return nil
}

// ClearCaptionSegments removes all caption segments for a video. Called
// before re-ingesting a transcript so a stale requeue never duplicates cues.
func (s *Store) ClearCaptionSegments(ctx context.Context, videoID int64) (int64, error) {
	res, err := s.execWithRetry(ctx,
		`DELETE FROM caption_segments WHERE video_id = ?`, videoID)
	if err != nil {
		return 0, fmt.Errorf("clear caption segments: %w", err)
	}
	return res.RowsAffected()
}

// CaptionsForVideo returns all caption segments for a video ordered by start time.
func (s *Store) CaptionsForVideo(ctx context.Context, videoID int64) ([]*CaptionSegment, error) {
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT id, video_id, start_time, end_time, text, sentiment_label, sentiment_score
         FROM caption_segments WHERE video_id = ? ORDER BY start_time ASC, id ASC`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("query caption segments: %w", err)
	}
	defer rows.Close()

	var segments []*CaptionSegment
	for rows.Next() {
		segment := &CaptionSegment{}
		var label sql.NullString
		var score sql.NullFloat64
		if err := rows.Scan(
			&segment.ID,
			&segment.VideoID,
			&segment.StartTime,
			&segment.EndTime,
			&segment.Text,
			&label,
			&score,
		); err != nil {
			return nil, err
		}
		segment.SentimentLabel = label.String
		segment.SentimentScore = score.Float64
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}
