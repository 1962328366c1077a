// Package gpio provides the digital pins used by the publisher and the
// subscriber.
//
// Two drivers exist:
//   - cdev: the Linux GPIO character device (/dev/gpiochipN) via go-gpiocdev
//   - sim: in-memory pins for development machines and tests
//
// Levels are raw electrical levels (0 or 1). Polarity is the caller's
// concern: feed.FromLevels and feed.State.Levels convert to and from the
// active-low wiring.
//
// Usage:
//
//	buttons, err := gpio.OpenInputs(cfg.GPIO, logger)
//	if err != nil {
//	    return err
//	}
//	defer buttons.Close()
//
//	left, right, err := buttons.Read()
package gpio
