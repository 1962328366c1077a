package feed

import "errors"

// Domain errors for feed payloads.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDecode is wrapped by every payload decoding failure.
	ErrDecode = errors.New("feed: cannot decode state")

	// ErrMalformedPayload is returned when the payload is not a JSON object.
	ErrMalformedPayload = errors.New("feed: payload is not a JSON object")

	// ErrMissingField is returned when "left" or "right" is absent.
	ErrMissingField = errors.New("feed: missing field")

	// ErrInvalidValue is returned when a field is not the integer 0 or 1.
	ErrInvalidValue = errors.New("feed: field must be 0 or 1")
)
