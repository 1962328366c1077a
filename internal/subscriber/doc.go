// Package subscriber mirrors an Adafruit IO feed onto two LEDs.
//
// Run subscribes to the feed, asks the broker to replay the retained value
// by publishing to <topic>/get, and then waits. Each message is decoded and
// written to the LEDs, left then right, with active-low polarity. Messages
// that do not decode are dropped without touching the pins.
package subscriber
