package gpio

import (
	"errors"
	"fmt"

	"github.com/nerrad567/feedbridge/internal/infrastructure/config"
)

// InputPin reads a digital input.
type InputPin interface {
	// Level returns the current electrical level, 0 or 1.
	Level() (int, error)
	Close() error
}

// OutputPin drives a digital output.
type OutputPin interface {
	// SetLevel drives the pin to 0 or 1.
	SetLevel(level int) error
	Close() error
}

// Logger is the logging interface used by the sim driver.
type Logger interface {
	Debug(msg string, args ...any)
}

// Inputs is the left/right button pair.
type Inputs struct {
	Left  InputPin
	Right InputPin
}

// Read returns the raw levels of both buttons, left first.
func (in Inputs) Read() (left, right int, err error) {
	left, err = in.Left.Level()
	if err != nil {
		return 0, 0, fmt.Errorf("reading left button: %w", err)
	}
	right, err = in.Right.Level()
	if err != nil {
		return 0, 0, fmt.Errorf("reading right button: %w", err)
	}
	return left, right, nil
}

// Close releases both pins.
func (in Inputs) Close() error {
	return errors.Join(closePin(in.Left), closePin(in.Right))
}

// Outputs is the left/right LED pair.
type Outputs struct {
	Left  OutputPin
	Right OutputPin
}

// Write drives both LEDs, left first.
func (out Outputs) Write(left, right int) error {
	if err := out.Left.SetLevel(left); err != nil {
		return fmt.Errorf("writing left led: %w", err)
	}
	if err := out.Right.SetLevel(right); err != nil {
		return fmt.Errorf("writing right led: %w", err)
	}
	return nil
}

// Close releases both pins.
func (out Outputs) Close() error {
	return errors.Join(closePin(out.Left), closePin(out.Right))
}

// OpenInputs requests the two button lines (pull-up inputs).
func OpenInputs(cfg config.GPIOConfig, logger Logger) (Inputs, error) {
	switch cfg.Driver {
	case config.DriverSim:
		return Inputs{
			Left:  NewSimPin("left_button", 1, logger),
			Right: NewSimPin("right_button", 1, logger),
		}, nil
	case config.DriverCdev:
		left, err := requestInput(cfg.Chip, cfg.LeftButton)
		if err != nil {
			return Inputs{}, err
		}
		right, err := requestInput(cfg.Chip, cfg.RightButton)
		if err != nil {
			left.Close() //nolint:errcheck // Best effort cleanup on error path
			return Inputs{}, err
		}
		return Inputs{Left: left, Right: right}, nil
	default:
		return Inputs{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// OpenOutputs requests the two LED lines. Both start high, which is off for
// the active-low LED wiring.
func OpenOutputs(cfg config.GPIOConfig, logger Logger) (Outputs, error) {
	switch cfg.Driver {
	case config.DriverSim:
		return Outputs{
			Left:  NewSimPin("left_led", 1, logger),
			Right: NewSimPin("right_led", 1, logger),
		}, nil
	case config.DriverCdev:
		left, err := requestOutput(cfg.Chip, cfg.LeftLED, 1)
		if err != nil {
			return Outputs{}, err
		}
		right, err := requestOutput(cfg.Chip, cfg.RightLED, 1)
		if err != nil {
			left.Close() //nolint:errcheck // Best effort cleanup on error path
			return Outputs{}, err
		}
		return Outputs{Left: left, Right: right}, nil
	default:
		return Outputs{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

func closePin(p interface{ Close() error }) error {
	if p == nil {
		return nil
	}
	return p.Close()
}
