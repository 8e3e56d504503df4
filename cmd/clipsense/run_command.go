package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clipsense/internal/config"
	"clipsense/internal/daemon"
	"clipsense/internal/ingest"
	"clipsense/internal/logging"
	"clipsense/internal/queue"
	"clipsense/internal/sentiment"
	"clipsense/internal/source"
	"clipsense/internal/worker"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the ingestion daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return err
			}

			d, err := buildDaemon(cfg, store, logger)
			if err != nil {
				_ = store.Close()
				return err
			}
			defer d.Close()

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(signalCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "clipsense daemon running (api %s); press Ctrl+C to stop\n", d.APIAddr())

			<-signalCtx.Done()
			return nil
		},
	}
}

func buildDaemon(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	resolver := source.NewYtDlp(cfg.Source)
	ingestor := ingest.New(store, sentiment.NewLexiconScorer(), logger)
	w := worker.New(cfg, store, resolver, ingestor, logger)
	return daemon.New(cfg, store, w, logger)
}
