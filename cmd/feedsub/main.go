// feedsub mirrors an Adafruit IO feed onto two LEDs.
//
// It waits for the WiFi link, connects to the broker, subscribes to the
// feed and requests its retained value, then lights the LEDs to match each
// message. Payloads that do not decode are logged and ignored. A dropped
// broker connection ends the process with a non-zero exit code.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/feedbridge/internal/app"
	"github.com/nerrad567/feedbridge/internal/gpio"
	"github.com/nerrad567/feedbridge/internal/subscriber"
)

// Version information - set at build time via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, app.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts app.Options) error {
	opts.Name = "feedsub"
	opts.Build = app.BuildInfo{Version: version, Commit: commit, Date: date}

	rt, err := app.Start(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()
	log := rt.Log

	leds, err := gpio.OpenOutputs(rt.Config.GPIO, log)
	if err != nil {
		return fmt.Errorf("opening leds: %w", err)
	}
	rt.AddCloser(func() {
		if closeErr := leds.Close(); closeErr != nil {
			log.Error("error releasing leds", "error", closeErr)
		}
	})

	s := subscriber.New(rt.Topic, rt.MQTT.QoS(), rt.MQTT, leds, rt.Recorder, log)

	runErr := s.Run(rt.Context())
	if lost := rt.Err(); lost != nil {
		return lost
	}
	if runErr != nil {
		return runErr
	}

	log.Info("shutdown signal received, cleaning up")
	return nil
}
