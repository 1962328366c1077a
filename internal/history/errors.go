package history

import "errors"

// ErrNoEvents is returned by Last when nothing has been recorded yet.
var ErrNoEvents = errors.New("history: no events recorded")
