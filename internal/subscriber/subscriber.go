package subscriber

import (
	"context"
	"fmt"

	"github.com/nerrad567/feedbridge/internal/feed"
	"github.com/nerrad567/feedbridge/internal/infrastructure/mqtt"
)

// getPayload is sent to the /get topic. Adafruit IO ignores its content.
var getPayload = []byte{0}

// MQTTClient is the broker connection used by the subscriber.
type MQTTClient interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// LEDs drives both indicator outputs. gpio.Outputs satisfies it.
type LEDs interface {
	Write(left, right int) error
}

// Logger is the logging interface used by the subscriber.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Subscriber applies received feed values to the LEDs.
type Subscriber struct {
	topic    feed.Topic
	qos      byte
	mqtt     MQTTClient
	leds     LEDs
	recorder feed.Recorder
	logger   Logger

	// ctx is handed to the recorder from the delivery goroutine.
	ctx context.Context
}

// New creates a subscriber for topic.
//
// Parameters:
//   - topic: Feed to mirror
//   - qos: Subscription QoS, 0 for Adafruit IO
//   - mqtt: Broker client
//   - leds: LED pair to drive
//   - recorder: Receives each applied state (may be nil)
//   - logger: Logger instance (may be nil)
func New(topic feed.Topic, qos byte, mqtt MQTTClient, leds LEDs, recorder feed.Recorder, logger Logger) *Subscriber {
	if recorder == nil {
		recorder = feed.NopRecorder{}
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Subscriber{
		topic:    topic,
		qos:      qos,
		mqtt:     mqtt,
		leds:     leds,
		recorder: recorder,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// HandleMessage decodes payload and writes it to the LEDs.
//
// It matches mqtt.MessageHandler. A decode error is returned before any
// pin is written; the MQTT layer logs it and the message is dropped.
func (s *Subscriber) HandleMessage(topic string, payload []byte) error {
	state, err := feed.Decode(payload)
	if err != nil {
		return fmt.Errorf("message on %s: %w", topic, err)
	}

	left, right := state.Levels()
	if err := s.leds.Write(left, right); err != nil {
		return fmt.Errorf("applying %s: %w", state, err)
	}

	s.logger.Info("feed state applied",
		"topic", topic,
		"state", state.String(),
		"code", state.Code(),
	)

	event := feed.NewEvent(feed.DirectionReceived, s.topic.Feed, state)
	if err := s.recorder.Record(s.ctx, event); err != nil {
		s.logger.Warn("recording received state failed", "error", err)
	}
	return nil
}

// Run subscribes, requests the retained value and blocks until ctx is done.
// It unsubscribes before returning so no message is delivered while the
// caller releases the LEDs.
//
// Returns:
//   - error: subscribe or /get publish failure, nil once ctx is cancelled
func (s *Subscriber) Run(ctx context.Context) error {
	s.ctx = ctx

	topic := s.topic.String()
	if err := s.mqtt.Subscribe(topic, s.qos, s.HandleMessage); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	s.logger.Info("subscribed", "topic", topic)

	if err := s.mqtt.Publish(s.topic.Get(), getPayload, s.qos, false); err != nil {
		return fmt.Errorf("requesting retained value: %w", err)
	}

	<-ctx.Done()

	// After a dropped connection this fails with ErrNotConnected, which is
	// expected.
	if err := s.mqtt.Unsubscribe(topic); err != nil {
		s.logger.Warn("unsubscribe failed", "topic", topic, "error", err)
	} else {
		s.logger.Info("unsubscribed", "topic", topic)
	}
	return nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}
