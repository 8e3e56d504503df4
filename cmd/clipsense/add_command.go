package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clipsense/internal/api"
	"clipsense/internal/config"
	"clipsense/internal/queue"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var skipDownload bool
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "add URL...",
		Short: "Submit video URLs to the ingestion queue",
		Long: `Submit video URLs to the ingestion queue.

URLs already present are left untouched regardless of their status; a failed
entry is not retried by re-adding it (use "queue retry" for that).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, args...)
			if fromStdin {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					urls = append(urls, scanner.Text())
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}
			if len(api.NormalizeURLs(urls)) == 0 {
				return fmt.Errorf("no URLs given")
			}

			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				resp, err := svc.Enqueue(cmd.Context(), urls, skipDownload)
				if err != nil {
					return err
				}
				skippedExisting := int64(resp.Submitted) - resp.Inserted
				fmt.Fprintf(cmd.OutOrStdout(), "Queued %d new URL(s)", resp.Inserted)
				if skippedExisting > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%d already present)", skippedExisting)
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&skipDownload, "skip-download", false, "Ingest captions without downloading the full video")
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read additional URLs from standard input, one per line")
	return cmd
}
