package gpio

import "errors"

// Domain errors for pin access.
var (
	// ErrUnknownDriver is returned for a driver name other than cdev or sim.
	ErrUnknownDriver = errors.New("gpio: unknown driver")

	// ErrUnsupported is returned when the cdev driver is used off Linux.
	ErrUnsupported = errors.New("gpio: character device not supported on this platform")

	// ErrRequestFailed is returned when a line cannot be requested.
	ErrRequestFailed = errors.New("gpio: line request failed")

	// ErrClosed is returned for operations on a closed pin.
	ErrClosed = errors.New("gpio: pin closed")
)
