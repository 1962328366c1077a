// Package wifi waits for the host to join the configured wireless network.
//
// Association itself is left to the host network manager. A Station asks
// it to connect and reports the link state; Join polls that state a bounded
// number of times and gives up with ErrJoinTimeout.
//
// Join must succeed before any broker connection is attempted.
package wifi
