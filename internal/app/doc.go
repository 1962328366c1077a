// Package app holds the startup sequence shared by feedpub and feedsub.
//
// Start loads configuration, brings up the logger, waits for the WiFi link,
// connects to the broker and opens the optional journal and telemetry
// sinks, in that order. A failed WiFi join returns before any broker
// connection is attempted; a failed broker connection returns immediately.
//
// The runtime context is cancelled when the process is interrupted or the
// broker connection drops. There is no reconnect.
package app
