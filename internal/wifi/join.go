package wifi

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/feedbridge/internal/infrastructure/config"
)

// Join defaults.
const (
	DefaultMaxAttempts = 20
	DefaultInterval    = time.Second
)

// Logger is the logging interface used while joining.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// JoinOptions bounds the wait for the link.
type JoinOptions struct {
	// MaxAttempts is the number of attempts before giving up. Each attempt
	// is a connect request (until one is accepted) plus a link check.
	MaxAttempts int

	// Interval is the pause after each failed check.
	Interval time.Duration

	// Sleep waits for d or until ctx is done. Defaults to a timer; tests
	// replace it to avoid real delays.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewStation builds the Station selected by cfg.Station.
func NewStation(cfg config.WiFiConfig) (Station, error) {
	switch cfg.Station {
	case config.StationNMCLI:
		return NewNMCLI(cfg.SSID, cfg.Password, cfg.AttemptInterval), nil
	case config.StationNone:
		return None{}, nil
	default:
		return nil, fmt.Errorf("wifi: unknown station %q", cfg.Station)
	}
}

// Join asks the station to connect and checks the link up to MaxAttempts
// times, pausing Interval after each failed check. A rejected connect
// request counts as a failed attempt and is issued again on the next one,
// so the link is checked even while the station keeps refusing.
//
// Returns:
//   - int: number of failed attempts before the link came up
//   - error: ErrJoinTimeout once MaxAttempts attempts have failed, or the
//     context error
func Join(ctx context.Context, station Station, opts JoinOptions, logger Logger) (int, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	requested := false
	for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
		if !requested {
			if err := station.Connect(ctx); err != nil {
				logger.Warn("connect request failed", "attempt", attempt, "error", err)
			} else {
				requested = true
			}
		}

		up, err := station.IsConnected(ctx)
		if err != nil {
			// A failed status query counts as a failed attempt.
			logger.Warn("link status check failed", "attempt", attempt, "error", err)
		}
		if up {
			return attempt, nil
		}

		logger.Info("waiting for network", "attempt", attempt)
		if err := opts.Sleep(ctx, opts.Interval); err != nil {
			return attempt + 1, err
		}
	}

	return opts.MaxAttempts, fmt.Errorf("%w after %d attempts", ErrJoinTimeout, opts.MaxAttempts)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
