package fsutil

import "errors"

// ErrEmptyOutputPath is returned when a write target is empty.
var ErrEmptyOutputPath = errors.New("output path cannot be empty")
