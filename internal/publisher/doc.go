// Package publisher sends button state changes to an Adafruit IO feed.
//
// The loop samples two active-low buttons, inverts them to logical pressed
// state, and publishes {"left":0|1,"right":0|1} with QoS 0 only when the
// pair differs from what was last sent. The cache starts released, so
// nothing is published at startup while both buttons are up.
//
// There is no debounce beyond the single-sample comparison and a short
// settle delay after each publish. Read and publish failures end the loop.
//
// Usage:
//
//	p := publisher.New(publisher.Config{
//	    Topic: feed.Topic{Username: "hari", Feed: "buttons"},
//	}, client, inputs, recorder, logger)
//	err := p.Run(ctx)
package publisher
