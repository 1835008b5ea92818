package readiness

import "errors"

// ErrTimeoutExceeded is returned when a resource does not become ready before its deadline.
var ErrTimeoutExceeded = errors.New("timeout exceeded")
