//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// consumer labels the requested lines in gpioinfo output.
const consumer = "feedbridge"

// cdevPin is a single requested line on a GPIO chip.
type cdevPin struct {
	line   *gpiocdev.Line
	offset int
}

func requestInput(chip string, offset int) (InputPin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithConsumer(consumer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrRequestFailed, chip, offset, err)
	}
	return &cdevPin{line: line, offset: offset}, nil
}

func requestOutput(chip string, offset, initial int) (OutputPin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(initial),
		gpiocdev.WithConsumer(consumer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrRequestFailed, chip, offset, err)
	}
	return &cdevPin{line: line, offset: offset}, nil
}

func (p *cdevPin) Level() (int, error) {
	v, err := p.line.Value()
	if err != nil {
		return 0, fmt.Errorf("reading line %d: %w", p.offset, err)
	}
	return v, nil
}

func (p *cdevPin) SetLevel(level int) error {
	if err := p.line.SetValue(level); err != nil {
		return fmt.Errorf("setting line %d: %w", p.offset, err)
	}
	return nil
}

func (p *cdevPin) Close() error {
	return p.line.Close()
}
