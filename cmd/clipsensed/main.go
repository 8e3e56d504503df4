// Command clipsensed runs the clipsense ingestion daemon: the queue worker
// plus the HTTP API, locked to a single instance per queue database.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"clipsense/internal/config"
	"clipsense/internal/daemon"
	"clipsense/internal/ingest"
	"clipsense/internal/logging"
	"clipsense/internal/queue"
	"clipsense/internal/sentiment"
	"clipsense/internal/source"
	"clipsense/internal/worker"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(os.Getenv("CLIPSENSE_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		os.Exit(1)
	}

	resolver := source.NewYtDlp(cfg.Source)
	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), logger)
	w := worker.New(cfg, store, resolver, ingestor, logger)

	d, err := daemon.New(cfg, store, w, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("clipsensed shutting down")
}
