package gpio

import "sync"

// SimPin is an in-memory pin usable as input or output.
// Tests drive inputs with Set and inspect outputs with Level and Writes.
type SimPin struct {
	name   string
	logger Logger

	mu     sync.Mutex
	level  int
	writes []int
	closed bool
}

// NewSimPin returns a pin at the given initial level. logger may be nil.
func NewSimPin(name string, initial int, logger Logger) *SimPin {
	return &SimPin{name: name, level: initial, logger: logger}
}

// Set changes the level seen by Level, as if the wire changed.
func (p *SimPin) Set(level int) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

// Level implements InputPin.
func (p *SimPin) Level() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, ErrClosed
	}
	return p.level, nil
}

// SetLevel implements OutputPin.
func (p *SimPin) SetLevel(level int) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.level = level
	p.writes = append(p.writes, level)
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Debug("sim pin set", "pin", p.name, "level", level)
	}
	return nil
}

// Writes returns every level written with SetLevel, oldest first.
func (p *SimPin) Writes() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]int, len(p.writes))
	copy(out, p.writes)
	return out
}

// Close implements InputPin and OutputPin.
func (p *SimPin) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
