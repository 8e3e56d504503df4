package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipsense/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadAppliesDefaultsForMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to report exists=false")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Source.YtDlpBinary != "yt-dlp" {
		t.Fatalf("expected default ytdlp binary, got %q", cfg.Source.YtDlpBinary)
	}
	if got := cfg.Source.CaptionLanguages; len(got) != 2 || got[0] != "en" || got[1] != "a.en" {
		t.Fatalf("unexpected default caption languages: %v", got)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
download_dir = "` + filepath.Join(dir, "dl") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[source]
ytdlp_binary = "  yt-dlp-nightly  "
caption_languages = [" en ", "", "fr"]

[workflow]
queue_poll_interval = 3

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Source.YtDlpBinary != "yt-dlp-nightly" {
		t.Fatalf("expected trimmed binary name, got %q", cfg.Source.YtDlpBinary)
	}
	if got := cfg.Source.CaptionLanguages; len(got) != 2 || got[0] != "en" || got[1] != "fr" {
		t.Fatalf("unexpected caption languages: %v", got)
	}
	if cfg.Workflow.QueuePollInterval != 3 {
		t.Fatalf("expected poll interval 3, got %d", cfg.Workflow.QueuePollInterval)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"zero poll interval", func(c *config.Config) { c.Workflow.QueuePollInterval = 0 }, "queue_poll_interval"},
		{"negative stale timeout", func(c *config.Config) { c.Workflow.StaleJobTimeout = -1 }, "stale_job_timeout"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"empty download dir", func(c *config.Config) { c.Paths.DownloadDir = "" }, "download_dir"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DownloadDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist", dir)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[workflow]") {
		t.Fatalf("sample config missing workflow section")
	}
}
