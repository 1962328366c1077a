package wifi

import "errors"

var (
	// ErrJoinTimeout is returned when the link is still down after the
	// maximum number of attempts.
	ErrJoinTimeout = errors.New("wifi: could not connect to the network")

	// ErrCommandFailed is returned when the network manager command fails.
	ErrCommandFailed = errors.New("wifi: network manager command failed")
)
