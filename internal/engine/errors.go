package engine

import "errors"

// ErrInvalidInput marks malformed numeric arguments (non-finite or
// non-positive values) passed to functions that assert them. Insufficient
// training data is not an error: it is represented structurally as a zero
// BaselineEstimate with confidence 0.
var ErrInvalidInput = errors.New("invalid input")
