package feed

import (
	"context"
	"errors"
	"time"
)

// Direction tells whether an event left or reached this device.
type Direction string

const (
	DirectionPublished Direction = "published"
	DirectionReceived  Direction = "received"
)

// Event is a state observed on a feed.
type Event struct {
	Direction Direction
	Feed      string
	State     State
	At        time.Time
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(dir Direction, feedName string, s State) Event {
	return Event{
		Direction: dir,
		Feed:      feedName,
		State:     s,
		At:        time.Now().UTC(),
	}
}

// Recorder stores feed events. Implementations must be safe for use from
// the MQTT delivery goroutine.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// NopRecorder discards events.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(context.Context, Event) error { return nil }

// MultiRecorder fans an event out to every recorder in order.
// All recorders are called even if one fails; the errors are joined.
type MultiRecorder []Recorder

// Record implements Recorder.
func (m MultiRecorder) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
