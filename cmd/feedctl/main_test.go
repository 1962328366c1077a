package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/feedbridge/internal/feed"
	"github.com/nerrad567/feedbridge/internal/history"
	"github.com/nerrad567/feedbridge/internal/infrastructure/config"
	"github.com/nerrad567/feedbridge/internal/infrastructure/database"
	"github.com/nerrad567/feedbridge/migrations"
)

// writeTestConfig writes a config whose broker refuses connections. With
// history set, the journal lives in the test's temp dir.
func writeTestConfig(t *testing.T, withHistory bool) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "feedbridge.db")
	content := fmt.Sprintf(`
wifi:
  station: none
adafruit:
  username: "hari"
  key: "aio_key"
  feed: "buttons"
mqtt:
  broker:
    host: "127.0.0.1"
    port: 19999
history:
  enabled: %t
  path: %q
logging:
  level: error
  output: stderr
`, withHistory, dbPath)
	configPath = filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath, dbPath
}

// openJournalDB opens and migrates the journal the way the binaries do.
func openJournalDB(t *testing.T, dbPath string) *database.DB {
	t.Helper()
	db, err := database.Open(config.HistoryConfig{Enabled: true, Path: dbPath, BusyTimeout: 5})
	if err != nil {
		t.Fatalf("opening journal: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup
	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("migrating journal: %v", err)
	}
	return db
}

func TestRun_Usage(t *testing.T) {
	configPath, _ := writeTestConfig(t, true)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{"-config", configPath}},
		{name: "unknown command", args: []string{"-config", configPath, "compact"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, &bytes.Buffer{})
			if !errors.Is(err, errUsage) {
				t.Errorf("run(%v) error = %v, want errUsage", tt.args, err)
			}
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	err := run(context.Background(), []string{"-config", "/nonexistent/path/config.yaml", "status"}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

func TestRun_HistoryDisabled(t *testing.T) {
	configPath, _ := writeTestConfig(t, false)

	for _, cmd := range []string{"status", "migrate-down", "recent"} {
		err := run(context.Background(), []string{"-config", configPath, cmd}, &bytes.Buffer{})
		if !errors.Is(err, errHistoryDisabled) {
			t.Errorf("run(%s) error = %v, want errHistoryDisabled", cmd, err)
		}
	}
}

func TestRun_StatusFresh(t *testing.T) {
	configPath, _ := writeTestConfig(t, true)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"-config", configPath, "status"}, &out); err != nil {
		t.Fatalf("run(status) error = %v", err)
	}
	if !strings.Contains(out.String(), "pending  20261014_090000  feed_events") {
		t.Errorf("status output = %q, want feed_events pending", out.String())
	}
}

func TestRun_StatusAndMigrateDown(t *testing.T) {
	configPath, dbPath := writeTestConfig(t, true)
	db := openJournalDB(t, dbPath)
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, []string{"-config", configPath, "status"}, &out); err != nil {
		t.Fatalf("run(status) error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "applied  20261014_090000") {
		t.Errorf("status output = %q, want feed_events applied", out.String())
	}

	if err := run(ctx, []string{"-config", configPath, "migrate-down"}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run(migrate-down) error = %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx, migrations.FS)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 || len(pending) != 1 {
		t.Errorf("after migrate-down applied=%d pending=%d, want 0/1", len(applied), len(pending))
	}
}

func TestRun_Recent(t *testing.T) {
	configPath, dbPath := writeTestConfig(t, true)
	journal := history.NewJournal(openJournalDB(t, dbPath).DB)
	ctx := context.Background()
	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	states := []feed.State{{Left: true}, {Left: true, Right: true}, {}}
	for i, s := range states {
		e := feed.Event{Direction: feed.DirectionPublished, Feed: "buttons", State: s, At: base.Add(time.Duration(i) * time.Second)}
		if err := journal.Record(ctx, e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	var out bytes.Buffer
	if err := run(ctx, []string{"-config", configPath, "recent", "-n", "2"}, &out); err != nil {
		t.Fatalf("run(recent) error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("recent printed %d lines, want 2: %q", len(lines), out.String())
	}
	if !strings.HasSuffix(lines[0], "left=0 right=0") || !strings.HasSuffix(lines[1], "left=1 right=1") {
		t.Errorf("recent lines = %q, want newest first", lines)
	}
}

func TestRun_CheckReportsEachDependency(t *testing.T) {
	configPath, _ := writeTestConfig(t, true)
	var out bytes.Buffer

	err := run(context.Background(), []string{"-config", configPath, "check"}, &out)
	if !errors.Is(err, errCheckFailed) {
		t.Fatalf("run(check) error = %v, want errCheckFailed", err)
	}

	output := out.String()
	for _, want := range []string{"mqtt     FAILED:", "history  ok", "influxdb skipped"} {
		if !strings.Contains(output, want) {
			t.Errorf("check output = %q, want %q", output, want)
		}
	}
}
