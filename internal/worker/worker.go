package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"clipsense/internal/config"
	"clipsense/internal/ingest"
	"clipsense/internal/logging"
	"clipsense/internal/queue"
	"clipsense/internal/source"
)

// Worker is the single long-lived process that drains the queue: it claims
// entries oldest-first, resolves them through the source collaborator, runs
// transcript ingestion (or the audio-only fallback), and writes the terminal
// status. One job is in flight at a time.
type Worker struct {
	cfg      *config.Config
	store    *queue.Store
	resolver source.Resolver
	ingestor *ingest.Ingestor
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	lastErr error
}

// New builds a Worker. A nil logger disables logging.
func New(cfg *config.Config, store *queue.Store, resolver source.Resolver, ingestor *ingest.Ingestor, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Worker{
		cfg:      cfg,
		store:    store,
		resolver: resolver,
		ingestor: ingestor,
		logger:   logging.NewComponentLogger(logger, "worker"),
	}
}

// Start begins background processing.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return errors.New("worker already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.running = true
	w.wg.Add(1)
	go w.run(runCtx)
	return nil
}

// Stop terminates background processing and waits for the in-flight job.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	cancel()
	w.wg.Wait()
}

// Running reports whether the worker loop is active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// LastError returns the most recent loop-level error, if any.
func (w *Worker) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Worker) setLastError(err error) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	staleTimeout := time.Duration(w.cfg.Workflow.StaleJobTimeout) * time.Second
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if reaped, err := w.store.ReapStale(ctx, staleTimeout); err != nil {
			w.logger.Warn("reaping stale entries failed; stuck jobs may remain",
				logging.Error(err),
				logging.String(logging.FieldEventType, "reap_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"))
		} else if reaped > 0 {
			w.logger.Info("requeued stale processing entries",
				logging.Int64("reaped", reaped),
				logging.String(logging.FieldEventType, "stale_requeued"))
		}

		entry, err := w.store.ClaimNext(ctx)
		if err != nil {
			w.setLastError(err)
			w.logger.Error("failed to claim next queue entry",
				logging.Error(err),
				logging.String(logging.FieldEventType, "claim_failed"),
				logging.String(logging.FieldErrorHint, "check queue database access"))
			w.sleep(ctx, time.Duration(w.cfg.Workflow.ErrorRetryInterval)*time.Second)
			continue
		}
		if entry == nil {
			w.sleep(ctx, time.Duration(w.cfg.Workflow.QueuePollInterval)*time.Second)
			continue
		}

		// A job failure must never terminate the loop; processEntry records
		// the terminal status itself.
		w.processEntry(ctx, entry)
	}
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (w *Worker) processEntry(ctx context.Context, entry *queue.Entry) {
	logger := w.logger.With(logging.String(logging.FieldJobURL, entry.URL))
	logger.Info("processing queue entry", logging.String(logging.FieldEventType, "job_started"))

	meta, err := w.resolver.Resolve(ctx, entry.URL)
	if err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("resolve failed: %v", err))
		return
	}

	video, err := w.store.GetOrCreateVideo(ctx, entry.URL, meta.Title)
	if err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("record video: %v", err))
		return
	}
	logger = logger.With(logging.Int64(logging.FieldVideoID, video.ID))

	track, hasCaptions := source.PreferredCaption(meta.CaptionTracks, w.cfg.Source.CaptionLanguages)
	if !hasCaptions {
		w.captureAudioOnly(ctx, logger, entry, video, meta)
		return
	}
	w.ingestCaptions(ctx, logger, entry, video, meta, track)
}

func (w *Worker) ingestCaptions(ctx context.Context, logger *slog.Logger, entry *queue.Entry, video *queue.Video, meta *source.Metadata, track source.CaptionTrack) {
	if !entry.SkipDownload {
		path, err := w.resolver.Download(ctx, entry.URL, meta.VideoFormat, w.cfg.Paths.DownloadDir)
		if err != nil {
			w.fail(ctx, logger, entry, fmt.Sprintf("download failed: %v", err))
			return
		}
		if err := w.store.UpdateVideoPath(ctx, video.ID, path); err != nil {
			w.fail(ctx, logger, entry, fmt.Sprintf("record download path: %v", err))
			return
		}
	}

	blob, err := w.resolver.SubtitleBlob(ctx, entry.URL, track)
	if err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("fetch captions: %v", err))
		return
	}

	outcome, err := w.ingestor.Run(ctx, video.ID, blob)
	if err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("ingest transcript: %v", err))
		return
	}

	message := fmt.Sprintf("Ingested %d segments", outcome.Segments)
	if outcome.Skipped > 0 {
		message = fmt.Sprintf("Ingested %d segments (%d malformed cues skipped)", outcome.Segments, outcome.Skipped)
	}
	w.complete(ctx, logger, entry, message)
}

// captureAudioOnly handles entries whose source has no usable caption track.
// Absence of captions is a successful outcome, not an error.
func (w *Worker) captureAudioOnly(ctx context.Context, logger *slog.Logger, entry *queue.Entry, video *queue.Video, meta *source.Metadata) {
	audioPath, err := w.resolver.Download(ctx, entry.URL, meta.AudioFormat, w.cfg.Paths.DownloadDir)
	if err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("audio download failed: %v", err))
		return
	}
	if _, err := w.store.AddAudio(ctx, video.ID, audioPath); err != nil {
		w.fail(ctx, logger, entry, fmt.Sprintf("record audio asset: %v", err))
		return
	}
	w.complete(ctx, logger, entry, "No captions available; captured audio only")
}

func (w *Worker) complete(ctx context.Context, logger *slog.Logger, entry *queue.Entry, message string) {
	if err := w.store.Complete(ctx, entry.URL, entry.AttemptToken, message); err != nil {
		w.reportTerminalWriteFailure(logger, err, "complete")
		return
	}
	logger.Info("queue entry completed",
		logging.String(logging.FieldEventType, "job_completed"),
		logging.String("message", message))
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, entry *queue.Entry, message string) {
	if err := w.store.Fail(ctx, entry.URL, entry.AttemptToken, message); err != nil {
		w.reportTerminalWriteFailure(logger, err, "fail")
		return
	}
	logger.Error("queue entry failed",
		logging.String(logging.FieldEventType, "job_failed"),
		logging.String("message", message))
}

// reportTerminalWriteFailure logs a terminal write that did not land. A
// superseded claim means this attempt was reaped and reclaimed while it was
// still running; the newer attempt owns the row now.
func (w *Worker) reportTerminalWriteFailure(logger *slog.Logger, err error, op string) {
	if errors.Is(err, queue.ErrClaimSuperseded) {
		logger.Warn("claim superseded; leaving newer attempt's status in place",
			logging.String(logging.FieldEventType, "claim_superseded"),
			logging.String("operation", op))
		return
	}
	w.setLastError(err)
	logger.Error("terminal status write failed",
		logging.Error(err),
		logging.String(logging.FieldEventType, "status_write_failed"),
		logging.String(logging.FieldErrorHint, "check queue database access"),
		logging.String("operation", op))
}
