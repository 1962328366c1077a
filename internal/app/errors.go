package app

import "errors"

// ErrConnectionLost is the cancellation cause when the broker drops the
// connection after startup.
var ErrConnectionLost = errors.New("app: broker connection lost")
