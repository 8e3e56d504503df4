package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clipsense/internal/api"
	"clipsense/internal/config"
	"clipsense/internal/queue"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show VIDEO_ID",
		Short: "Show a video and its scored caption segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := parseVideoID(args[0])
			if err != nil {
				return err
			}
			return ctx.withService(func(cfg *config.Config, svc *api.QueueService, store *queue.Store) error {
				video, err := store.GetVideoByID(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				if video == nil {
					return fmt.Errorf("video %d not found", videoID)
				}
				segments, err := svc.Captions(cmd.Context(), videoID)
				if err != nil {
					return err
				}

				if jsonOut {
					return writeJSON(cmd, map[string]any{
						"id":            video.ID,
						"url":           video.URL,
						"title":         video.Title,
						"download_path": video.DownloadPath,
						"segments":      segments,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video %d: %s\n", video.ID, video.Title)
				fmt.Fprintf(out, "URL:      %s\n", video.URL)
				if video.DownloadPath != "" {
					fmt.Fprintf(out, "File:     %s\n", video.DownloadPath)
				}
				if len(segments) == 0 {
					fmt.Fprintln(out, "No caption segments")
					return nil
				}

				rows := make([][]string, 0, len(segments))
				for _, segment := range segments {
					rows = append(rows, []string{
						formatSeconds(segment.StartTime),
						formatSeconds(segment.EndTime),
						segment.Text,
						segment.SentimentLabel,
						strconv.FormatFloat(segment.SentimentScore, 'f', 2, 64),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Start", "End", "Text", "Sentiment", "Score"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON output")
	return cmd
}

func parseVideoID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid video id %q", arg)
	}
	return id, nil
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 3, 64) + "s"
}
