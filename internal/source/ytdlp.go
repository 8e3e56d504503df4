package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipsense/internal/config"
)

const (
	defaultVideoFormat = "bestvideo*+bestaudio/best"
	defaultAudioFormat = "bestaudio/best"
)

// YtDlp resolves and downloads media through the yt-dlp binary.
type YtDlp struct {
	binary          string
	resolveTimeout  time.Duration
	downloadTimeout time.Duration

	// output runs a command and returns its stdout; overridable for tests.
	output func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewYtDlp builds a resolver from the source configuration section.
func NewYtDlp(cfg config.Source) *YtDlp {
	return &YtDlp{
		binary:          cfg.YtDlpBinary,
		resolveTimeout:  time.Duration(cfg.ResolveTimeout) * time.Second,
		downloadTimeout: time.Duration(cfg.DownloadTimeout) * time.Second,
		output:          runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output() //nolint:gosec
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func lastNonEmptyLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Resolve fetches metadata for a URL via --dump-single-json.
func (y *YtDlp) Resolve(ctx context.Context, rawURL string) (*Metadata, error) {
	ctx, cancel := y.withTimeout(ctx, y.resolveTimeout)
	defer cancel()

	out, err := y.output(ctx, y.binary,
		"--dump-single-json", "--skip-download", "--no-warnings", rawURL)
	if err != nil {
		return nil, wrapError(KindResolve, rawURL, err)
	}
	meta, err := parseMetadata(out, rawURL)
	if err != nil {
		return nil, wrapError(KindResolve, rawURL, err)
	}
	return meta, nil
}

// Download fetches the selected format into destDir and returns the file path
// printed by yt-dlp after any post-processing moves.
func (y *YtDlp) Download(ctx context.Context, rawURL, format, destDir string) (string, error) {
	ctx, cancel := y.withTimeout(ctx, y.downloadTimeout)
	defer cancel()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", wrapError(KindDownload, rawURL, err)
	}
	out, err := y.output(ctx, y.binary,
		"--no-progress", "--no-warnings",
		"-f", format,
		"-P", destDir,
		"-o", "%(id)s.%(ext)s",
		"--print", "after_move:filepath",
		"--no-simulate",
		rawURL)
	if err != nil {
		return "", wrapError(KindDownload, rawURL, err)
	}
	path := lastNonEmptyLine(string(out))
	if path == "" {
		return "", wrapError(KindDownload, rawURL, fmt.Errorf("yt-dlp reported no output path"))
	}
	return path, nil
}

// SubtitleBlob fetches one caption track as raw SRT text. yt-dlp only writes
// subtitles to disk, so the track is staged through a temp directory.
func (y *YtDlp) SubtitleBlob(ctx context.Context, rawURL string, track CaptionTrack) (string, error) {
	ctx, cancel := y.withTimeout(ctx, y.resolveTimeout)
	defer cancel()

	stageDir, err := os.MkdirTemp("", "clipsense-subs-")
	if err != nil {
		return "", wrapError(KindCaptions, rawURL, err)
	}
	defer os.RemoveAll(stageDir)

	subsFlag := "--write-subs"
	if track.Auto() {
		subsFlag = "--write-auto-subs"
	}
	if _, err := y.output(ctx, y.binary,
		"--skip-download", "--no-warnings",
		subsFlag,
		"--sub-langs", track.Language(),
		"--convert-subs", "srt",
		"-P", stageDir,
		"-o", "track.%(ext)s",
		rawURL); err != nil {
		return "", wrapError(KindCaptions, rawURL, err)
	}

	matches, err := filepath.Glob(filepath.Join(stageDir, "track.*"))
	if err != nil {
		return "", wrapError(KindCaptions, rawURL, err)
	}
	if len(matches) == 0 {
		return "", wrapError(KindCaptions, rawURL, fmt.Errorf("no subtitle file written for track %s", track.Code))
	}
	sort.Strings(matches)
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return "", wrapError(KindCaptions, rawURL, err)
	}
	return string(data), nil
}

func (y *YtDlp) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

type ytdlpPayload struct {
	Title             string                      `json:"title"`
	Subtitles         map[string][]map[string]any `json:"subtitles"`
	AutomaticCaptions map[string][]map[string]any `json:"automatic_captions"`
}

func parseMetadata(data []byte, rawURL string) (*Metadata, error) {
	var payload ytdlpPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	meta := &Metadata{
		Title:       strings.TrimSpace(payload.Title),
		VideoFormat: defaultVideoFormat,
		AudioFormat: defaultAudioFormat,
	}
	if meta.Title == "" {
		meta.Title = titleFromURL(rawURL)
	}

	for code := range payload.Subtitles {
		meta.CaptionTracks = append(meta.CaptionTracks, CaptionTrack{Code: code})
	}
	for code := range payload.AutomaticCaptions {
		meta.CaptionTracks = append(meta.CaptionTracks, CaptionTrack{Code: "a." + code})
	}
	sort.Slice(meta.CaptionTracks, func(i, j int) bool {
		return meta.CaptionTracks[i].Code < meta.CaptionTracks[j].Code
	})
	return meta, nil
}

// titleFromURL derives a presentable title from the URL path when the source
// reports none.
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return rawURL
	}
	base := filepath.Base(parsed.Path)
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return rawURL
	}
	return cases.Title(language.Und).String(base)
}
