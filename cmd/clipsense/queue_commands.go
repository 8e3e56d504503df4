package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clipsense/internal/api"
	"clipsense/internal/config"
	"clipsense/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the ingestion queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newQueueStatusCommand(ctx))
	cmd.AddCommand(newQueueListCommand(ctx))
	cmd.AddCommand(newQueueHealthCommand(ctx))
	cmd.AddCommand(newQueueReapCommand(ctx))
	cmd.AddCommand(newQueueRetryCommand(ctx))
	return cmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show queue entry counts by lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				health, err := svc.Health(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, health)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:      %d\n", health.Total)
				fmt.Fprintf(out, "Queued:     %d\n", health.Queued)
				fmt.Fprintf(out, "Processing: %d\n", health.Processing)
				fmt.Fprintf(out, "Completed:  %d\n", health.Completed)
				fmt.Fprintf(out, "Failed:     %d\n", health.Failed)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue entries newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				entries, err := svc.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, api.QueueListResponse{Entries: entries})
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				colorize := writerIsTerminal(cmd.OutOrStdout())
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					videoID := ""
					if entry.VideoID != nil {
						videoID = fmt.Sprintf("%d", *entry.VideoID)
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", entry.ID),
						entry.URL,
						colorizeStatus(entry.Status, colorize),
						entry.Title,
						videoID,
						entry.StatusMessage,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "URL", "Status", "Title", "Video", "Message"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run queue database diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, health)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database:        %s\n", health.DBPath)
				fmt.Fprintf(out, "Readable:        %t\n", health.DatabaseReadable)
				fmt.Fprintf(out, "Integrity check: %t\n", health.IntegrityCheck)
				fmt.Fprintf(out, "Entries:         %d\n", health.TotalEntries)
				if len(health.MissingTables) > 0 {
					fmt.Fprintf(out, "Missing tables:  %s\n", strings.Join(health.MissingTables, ", "))
				}
				if health.Error != "" {
					fmt.Fprintf(out, "Error:           %s\n", health.Error)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func newQueueReapCommand(ctx *commandContext) *cobra.Command {
	var timeoutSeconds int

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Requeue processing entries stuck past the stale timeout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				timeout := time.Duration(timeoutSeconds) * time.Second
				if timeoutSeconds <= 0 {
					timeout = time.Duration(cfg.Workflow.StaleJobTimeout) * time.Second
				}
				reaped, err := store.ReapStale(cmd.Context(), timeout)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d stale entr%s\n", reaped, pluralY(reaped))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&timeoutSeconds, "timeout", 0, "Stale timeout in seconds (defaults to the configured value)")
	return cmd
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [URL...]",
		Short: "Move failed entries back to queued",
		Long:  "Move failed entries back to queued. With no arguments, every failed entry is retried.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				retried, err := store.RetryFailed(cmd.Context(), api.NormalizeURLs(args)...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed entr%s\n", retried, pluralY(retried))
				return nil
			})
		},
	}
}

func pluralY(count int64) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
