//go:build !linux

package gpio

func requestInput(string, int) (InputPin, error) {
	return nil, ErrUnsupported
}

func requestOutput(string, int, int) (OutputPin, error) {
	return nil, ErrUnsupported
}
