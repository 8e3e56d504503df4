package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"clipsense/internal/api"
	"clipsense/internal/config"
	"clipsense/internal/queue"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var unlink bool

	cmd := &cobra.Command{
		Use:   "delete VIDEO_ID",
		Short: "Delete a video, its captions, audio assets, and queue entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one video id")
			}
			videoID, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				resp, err := svc.Delete(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !resp.Deleted {
					fmt.Fprintf(out, "Video %d not found; nothing deleted\n", videoID)
					return nil
				}

				fmt.Fprintf(out, "Deleted video %d\n", videoID)
				for _, path := range resp.Paths {
					if !unlink {
						fmt.Fprintf(out, "Orphaned file: %s\n", path)
						continue
					}
					if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
						fmt.Fprintf(cmd.ErrOrStderr(), "Failed to remove %s: %v\n", path, err)
						continue
					}
					fmt.Fprintf(out, "Removed file: %s\n", path)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&unlink, "unlink", false, "Also remove the video and audio files from disk")
	return cmd
}
