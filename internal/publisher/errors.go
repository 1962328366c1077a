package publisher

import "errors"

// Domain-specific errors for the publish loop.
var (
	// ErrRead is returned when a button cannot be sampled.
	ErrRead = errors.New("publisher: reading buttons failed")

	// ErrPublish is returned when the broker rejects or drops a publish.
	ErrPublish = errors.New("publisher: publish failed")
)
