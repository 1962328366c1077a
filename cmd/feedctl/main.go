// feedctl inspects and maintains a feedbridge installation.
//
// It reads the same configuration file as feedpub and feedsub and assumes
// the host network is already up.
//
// Usage:
//
//	feedctl [-config path] <command> [flags]
//
// Commands:
//
//	status        list applied and pending history migrations
//	migrate-down  roll back the most recent history migration
//	recent [-n N] print the newest journal entries, newest first
//	check         verify the broker, history database and InfluxDB
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/feedbridge/internal/app"
	"github.com/nerrad567/feedbridge/internal/history"
	"github.com/nerrad567/feedbridge/internal/infrastructure/config"
	"github.com/nerrad567/feedbridge/internal/infrastructure/database"
	"github.com/nerrad567/feedbridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/feedbridge/internal/infrastructure/logging"
	"github.com/nerrad567/feedbridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/feedbridge/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultRecent = 10
	checkTimeout  = 5 * time.Second
)

var (
	errUsage           = errors.New("usage: feedctl [-config path] status|migrate-down|recent [-n N]|check")
	errHistoryDisabled = errors.New("history is disabled in the configuration")
	errCheckFailed     = errors.New("one or more checks failed")
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and dispatches to a command, writing results to out.
func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("feedctl", flag.ContinueOnError)
	configPath := flags.String("config", app.ConfigPath(), "path to the configuration file")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, version).With("component", "feedctl")
	log.Debug("feedctl starting", "commit", commit, "build_date", date, "config", *configPath)

	cmd, cmdArgs := flags.Arg(0), flags.Args()[1:]
	switch cmd {
	case "status":
		return runStatus(ctx, cfg, out)
	case "migrate-down":
		return runMigrateDown(ctx, cfg, log)
	case "recent":
		return runRecent(ctx, cfg, cmdArgs, out)
	case "check":
		return runCheck(ctx, cfg, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func openHistory(cfg *config.Config) (*database.DB, error) {
	if !cfg.History.Enabled {
		return nil, errHistoryDisabled
	}
	db, err := database.Open(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	return db, nil
}

func runStatus(ctx context.Context, cfg *config.Config, out io.Writer) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-only command

	applied, pending, err := db.GetMigrationStatus(ctx, migrations.FS)
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	for _, r := range applied {
		fmt.Fprintf(out, "applied  %s  %s\n", r.Version, r.AppliedAt.Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
	}
	return nil
}

func runMigrateDown(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Nothing left to flush after commit

	if err := db.MigrateDown(ctx, migrations.FS); err != nil {
		return fmt.Errorf("rolling back migration: %w", err)
	}
	log.Info("rolled back latest migration", "path", db.Path())
	return nil
}

func runRecent(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("recent", flag.ContinueOnError)
	limit := flags.Int("n", defaultRecent, "number of entries to print")
	if err := flags.Parse(args); err != nil {
		return err
	}

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-only command

	events, err := history.NewJournal(db.DB).Recent(ctx, *limit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	for _, e := range events {
		fmt.Fprintf(out, "%s  %-9s  %s  %s\n",
			e.At.Format(time.RFC3339Nano), e.Direction, e.Feed, e.State)
	}
	return nil
}

// runCheck probes every configured dependency and prints one line each.
// Disabled sinks are reported as skipped.
func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	var failed []error
	report := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(out, "%-8s FAILED: %v\n", name, err)
			failed = append(failed, fmt.Errorf("%s: %w", name, err))
			return
		}
		fmt.Fprintf(out, "%-8s ok\n", name)
	}

	report("mqtt", checkMQTT(ctx, cfg.MQTT))

	if cfg.History.Enabled {
		report("history", checkHistory(ctx, cfg.History))
	} else {
		fmt.Fprintf(out, "%-8s skipped\n", "history")
	}

	if cfg.InfluxDB.Enabled {
		report("influxdb", checkInfluxDB(ctx, cfg.InfluxDB))
	} else {
		fmt.Fprintf(out, "%-8s skipped\n", "influxdb")
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %w", errCheckFailed, errors.Join(failed...))
	}
	return nil
}

func checkMQTT(ctx context.Context, cfg config.MQTTConfig) error {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck // Probe connection

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return client.HealthCheck(checkCtx)
}

func checkHistory(ctx context.Context, cfg config.HistoryConfig) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Probe connection

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return db.HealthCheck(checkCtx)
}

func checkInfluxDB(ctx context.Context, cfg config.InfluxDBConfig) error {
	client, err := influxdb.Connect(cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck // No points written

	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return client.HealthCheck(checkCtx)
}
