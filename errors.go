package goReset

import "errors"

var (
	// ErrBrokerNotReady is returned when a flow runs on a nil or partially
	// constructed broker.
	ErrBrokerNotReady = errors.New("broker not ready")
	// ErrBuilderUsed is returned by Build on a builder that already produced
	// a broker.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrIdentityContract is returned when the directory resolves an identity
	// with an empty lookup key or email. This is a configuration fault, not a
	// recoverable outcome: continuing would corrupt throttle keys and links.
	ErrIdentityContract = errors.New("user directory returned identity without lookup key or email")
	// ErrDirectoryUnavailable wraps backend failures from the user directory.
	ErrDirectoryUnavailable = errors.New("user directory unavailable")
	// ErrThrottleUnavailable wraps backend failures from the rate limiter.
	ErrThrottleUnavailable = errors.New("rate limiter unavailable")
	// ErrLinkUnavailable wraps failures while building a reset link.
	ErrLinkUnavailable = errors.New("reset link generation failed")
	// ErrNotifierUnavailable is returned when a link was built but no delivery
	// path exists: no callback, no notifiable identity, no configured notifier.
	// The throttle hit is already recorded on this path.
	ErrNotifierUnavailable = errors.New("no reset notification delivery path configured")
	// ErrNotifyFailed wraps delivery failures. The throttle hit is already
	// recorded on this path, keeping the limiter conservative.
	ErrNotifyFailed = errors.New("reset notification delivery failed")
	// ErrPasswordMissing is returned by Reset when the credentials carry no
	// new password. The flow treats this as an explicit validation fault
	// rather than undefined behavior.
	ErrPasswordMissing = errors.New("credentials missing new password")
	// ErrConfirmCallbackMissing is returned by Reset when no confirm callback
	// was supplied. The broker never persists passwords itself.
	ErrConfirmCallbackMissing = errors.New("password confirm callback required")
)
