// feedpub publishes two push buttons to an Adafruit IO feed.
//
// It waits for the WiFi link, connects to the broker and then publishes
// {"left":0|1,"right":0|1} every time the pressed state of either button
// changes. Any read or publish failure, or a dropped broker connection,
// ends the process with a non-zero exit code.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/feedbridge/internal/app"
	"github.com/nerrad567/feedbridge/internal/gpio"
	"github.com/nerrad567/feedbridge/internal/publisher"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
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

// run is the application logic, separated from main for testability.
func run(ctx context.Context, opts app.Options) error {
	opts.Name = "feedpub"
	opts.Build = app.BuildInfo{Version: version, Commit: commit, Date: date}

	rt, err := app.Start(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()
	log := rt.Log

	buttons, err := gpio.OpenInputs(rt.Config.GPIO, log)
	if err != nil {
		return fmt.Errorf("opening buttons: %w", err)
	}
	rt.AddCloser(func() {
		if closeErr := buttons.Close(); closeErr != nil {
			log.Error("error releasing buttons", "error", closeErr)
		}
	})
	log.Info("buttons ready",
		"driver", rt.Config.GPIO.Driver,
		"left", rt.Config.GPIO.LeftButton,
		"right", rt.Config.GPIO.RightButton,
	)

	p := publisher.New(publisher.Config{
		Topic:        rt.Topic,
		QoS:          rt.MQTT.QoS(),
		PollInterval: rt.Config.GetPollInterval(),
		SettleDelay:  rt.Config.GetSettleDelay(),
	}, rt.MQTT, buttons, rt.Recorder, log)

	runErr := p.Run(rt.Context())
	if lost := rt.Err(); lost != nil {
		return lost
	}
	if runErr != nil {
		return runErr
	}

	log.Info("shutdown signal received, cleaning up")
	return nil
}
