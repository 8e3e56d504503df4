package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipsense/internal/api"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	path := filepath.Join(base, "clipsense.toml")
	content := fmt.Sprintf(`[paths]
download_dir = %q
log_dir = %q
api_bind = "127.0.0.1:0"
`, filepath.Join(base, "downloads"), filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) string {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\noutput: %s", args, err, out.String())
	}
	return out.String()
}

func TestAddAndListQueue(t *testing.T) {
	configPath := writeTestConfig(t)

	out := runCLI(t, configPath, "add", "https://example.com/v", "--skip-download")
	if !strings.Contains(out, "Queued 1 new URL(s)") {
		t.Fatalf("unexpected add output: %q", out)
	}

	// Re-adding is a no-op.
	out = runCLI(t, configPath, "add", "https://example.com/v")
	if !strings.Contains(out, "Queued 0 new URL(s)") || !strings.Contains(out, "1 already present") {
		t.Fatalf("unexpected duplicate add output: %q", out)
	}

	out = runCLI(t, configPath, "queue", "list", "--json")
	var list api.QueueListResponse
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("parse list output: %v\noutput: %s", err, out)
	}
	if len(list.Entries) != 1 || list.Entries[0].URL != "https://example.com/v" {
		t.Fatalf("unexpected listing: %+v", list)
	}
	if !list.Entries[0].SkipDownload {
		t.Fatal("expected skip_download preserved from first submission")
	}
}

func TestQueueStatusJSON(t *testing.T) {
	configPath := writeTestConfig(t)
	runCLI(t, configPath, "add", "https://example.com/a", "https://example.com/b")

	out := runCLI(t, configPath, "queue", "status", "--json")
	var health api.QueueHealth
	if err := json.Unmarshal([]byte(out), &health); err != nil {
		t.Fatalf("parse status output: %v\noutput: %s", err, out)
	}
	if health.Total != 2 || health.Queued != 2 {
		t.Fatalf("unexpected health: %+v", health)
	}
}

func TestTableCommand(t *testing.T) {
	configPath := writeTestConfig(t)
	runCLI(t, configPath, "add", "https://example.com/v")

	out := runCLI(t, configPath, "table", "queue_entries", "--json")
	var dump api.TableDump
	if err := json.Unmarshal([]byte(out), &dump); err != nil {
		t.Fatalf("parse table output: %v\noutput: %s", err, out)
	}
	if dump.Name != "queue_entries" || len(dump.Rows) != 1 {
		t.Fatalf("unexpected dump: %+v", dump)
	}

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--config", configPath, "table", "sqlite_master"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestDeleteMissingVideo(t *testing.T) {
	configPath := writeTestConfig(t)

	out := runCLI(t, configPath, "delete", "42")
	if !strings.Contains(out, "not found") {
		t.Fatalf("unexpected delete output: %q", out)
	}
}

func TestAddRejectsEmptyInput(t *testing.T) {
	configPath := writeTestConfig(t)

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--config", configPath, "add", "   "})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for blank URL input")
	}
}
