package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/feedbridge/internal/feed"
)

// Loop timing defaults.
const (
	DefaultPollInterval = 10 * time.Millisecond
	DefaultSettleDelay  = 100 * time.Millisecond
)

// MQTTClient is the publishing side of the broker connection.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Buttons samples the raw electrical level of both buttons.
// gpio.Inputs satisfies it.
type Buttons interface {
	Read() (left, right int, err error)
}

// Logger is the logging interface used by the loop.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Config controls the loop.
type Config struct {
	// Topic is the feed to publish to.
	Topic feed.Topic

	// QoS for each publish. Adafruit IO feeds are written at QoS 0.
	QoS byte

	// PollInterval is the pause between samples.
	PollInterval time.Duration

	// SettleDelay is the pause after a publish before sampling again.
	SettleDelay time.Duration

	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Publisher owns the last-sent cache and the poll loop.
//
// Thread Safety: Poll and Run must be called from one goroutine.
type Publisher struct {
	cfg      Config
	mqtt     MQTTClient
	buttons  Buttons
	recorder feed.Recorder
	logger   Logger

	last feed.State
}

// New creates a publisher with both buttons cached as released.
//
// Parameters:
//   - cfg: Topic and timing; zero durations take the defaults
//   - mqtt: Broker client used for publishing
//   - buttons: Button pair to sample
//   - recorder: Receives each published state (may be nil)
//   - logger: Logger instance (may be nil)
func New(cfg Config, mqtt MQTTClient, buttons Buttons, recorder feed.Recorder, logger Logger) *Publisher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepContext
	}
	if recorder == nil {
		recorder = feed.NopRecorder{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Publisher{
		cfg:      cfg,
		mqtt:     mqtt,
		buttons:  buttons,
		recorder: recorder,
		logger:   logger,
	}
}

// Last returns the most recently published state.
func (p *Publisher) Last() feed.State {
	return p.last
}

// Poll samples the buttons once and publishes if the state changed.
//
// The cache only moves after the broker accepted the publish, so a failed
// publish leaves the previous state in place.
//
// Returns:
//   - bool: true if a message was published
//   - error: ErrRead or ErrPublish wrapping the cause
func (p *Publisher) Poll(ctx context.Context) (bool, error) {
	left, right, err := p.buttons.Read()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRead, err)
	}

	state := feed.FromLevels(left, right)
	if state == p.last {
		return false, nil
	}

	topic := p.cfg.Topic.String()
	if err := p.mqtt.Publish(topic, feed.Encode(state), p.cfg.QoS, false); err != nil {
		return false, fmt.Errorf("%w: %w", ErrPublish, err)
	}
	p.last = state

	p.logger.Info("button state published",
		"topic", topic,
		"state", state.String(),
		"code", state.Code(),
	)

	event := feed.NewEvent(feed.DirectionPublished, p.cfg.Topic.Feed, state)
	if err := p.recorder.Record(ctx, event); err != nil {
		p.logger.Warn("recording published state failed", "error", err)
	}

	return true, nil
}

// Run polls until ctx is cancelled or a poll fails.
//
// Returns nil when ctx is cancelled; any read or publish error is returned
// as is and ends the loop.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("publisher started",
		"topic", p.cfg.Topic.String(),
		"poll_interval", p.cfg.PollInterval,
	)

	for {
		published, err := p.Poll(ctx)
		if err != nil {
			return err
		}

		wait := p.cfg.PollInterval
		if published {
			wait = p.cfg.SettleDelay
		}
		if err := p.cfg.Sleep(ctx, wait); err != nil {
			p.logger.Debug("publisher stopped", "reason", err)
			return nil
		}
	}
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

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
