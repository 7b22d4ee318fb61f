package rate

import "errors"

// ErrBackendUnavailable wraps any Redis failure. Callers treat it as an
// infrastructure fault, never as a throttle decision.
var ErrBackendUnavailable = errors.New("rate limiter backend unavailable")
