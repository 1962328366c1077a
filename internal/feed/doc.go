// Package feed defines the button state carried over an Adafruit IO feed.
//
// A State holds two logical (active-high) booleans, left and right. On the
// wire it is a flat JSON object with integer booleans:
//
//	{"left":1,"right":0}
//
// Physical pins are active-low: buttons are wired to pull-up inputs and LEDs
// sink current, so a pressed button reads 0 and an LED lights at 0.
// FromLevels and Levels convert between the two.
//
// # Topics
//
// Adafruit IO maps feeds onto MQTT topics:
//
//	<username>/feeds/<feed>      publish/subscribe
//	<username>/feeds/<feed>/get  ask the broker to replay the retained value
package feed
