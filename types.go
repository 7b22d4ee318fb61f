package goReset

import (
	"context"
	"net/url"
	"time"
)

// Credentials is the caller-supplied mapping of lookup fields (for example
// {"email": "a@x.com"}). The broker treats it as opaque beyond stripping the
// reset token before directory lookups and extracting the new password during
// [Broker.Reset].
type Credentials map[string]string

const (
	credentialTokenField    = "token"
	credentialPasswordField = "password"
)

// WithoutToken returns a copy of the credentials with the reset token field
// removed. The token is only meaningful to reset validation, never to user
// lookup.
func (c Credentials) WithoutToken() Credentials {
	out := make(Credentials, len(c))
	for k, v := range c {
		if k == credentialTokenField {
			continue
		}
		out[k] = v
	}
	return out
}

// Password returns the new password carried by the credentials, if any.
func (c Credentials) Password() string {
	return c[credentialPasswordField]
}

// UserIdentity is the external user entity a reset flow operates on.
// ResetLookupKey must be stable for the account's lifetime; it is embedded in
// signed links. Email is used both for delivery and as the throttle key.
//
// An identity whose lookup key or email is empty violates the directory
// contract and causes flows to fail fast with [ErrIdentityContract].
type UserIdentity interface {
	ResetLookupKey() string
	Email() string
}

// ResetNotifiable is an optional capability of a [UserIdentity]. When the
// resolved identity implements it and no delivery callback is supplied to
// [Broker.SendResetLink], the broker delivers the link through this method.
type ResetNotifiable interface {
	SendPasswordResetNotification(ctx context.Context, resetURL string) error
}

// UserDirectory resolves credentials to a user identity. Implementations must
// return (nil, nil) when no user matches — "not found" is an outcome, not an
// error. Errors are reserved for backend failures.
type UserDirectory interface {
	RetrieveByCredentials(ctx context.Context, creds Credentials) (UserIdentity, error)
}

// RateLimiter tracks attempt counts per throttle key with a decaying window.
// TooManyAttempts reports whether the key already used its budget without
// recording an attempt; Hit records one. The default implementation is a
// Redis fixed-window counter supplied by [Builder.WithRedis].
type RateLimiter interface {
	TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error)
	Hit(ctx context.Context, key string, decay time.Duration) error
}

// AtomicRateLimiter is an optional [RateLimiter] upgrade that collapses check
// and hit into one operation. When the configured limiter implements it, the
// broker uses AttemptAndHit and the check/hit race between two concurrent
// requests for the same key disappears.
type AtomicRateLimiter interface {
	RateLimiter
	AttemptAndHit(ctx context.Context, key string, maxAttempts int, decay time.Duration) (bool, error)
}

// Notifier delivers a reset link to a user when the identity itself is not
// [ResetNotifiable] and no delivery callback was supplied.
type Notifier interface {
	SendPasswordReset(ctx context.Context, user UserIdentity, resetURL string) error
}

// Request abstracts the inbound request context carrying signed-link
// parameters, so the broker stays independent of any HTTP framework.
type Request interface {
	LinkParams() url.Values
}

// QueryRequest adapts raw query values to the [Request] interface.
type QueryRequest url.Values

// LinkParams returns the underlying query values.
func (q QueryRequest) LinkParams() url.Values { return url.Values(q) }

// LinkBuilder replaces the default signed-link construction. It is the
// injectable seam behind [Broker.CreateURLUsing].
type LinkBuilder interface {
	BuildResetURL(ctx context.Context, user UserIdentity) (string, error)
}

// LinkBuilderFunc adapts a function to the [LinkBuilder] interface.
type LinkBuilderFunc func(ctx context.Context, user UserIdentity) (string, error)

// BuildResetURL calls f.
func (f LinkBuilderFunc) BuildResetURL(ctx context.Context, user UserIdentity) (string, error) {
	return f(ctx, user)
}

// RequestValidator fully replaces signature checking during
// [Broker.ValidateReset]. A non-nil returned identity overrides the resolved
// user; a nil identity with a nil error falls back to the resolved user. An
// error is treated as an infrastructure fault and propagated unchanged.
type RequestValidator interface {
	ValidateResetRequest(ctx context.Context, req Request, creds Credentials) (UserIdentity, error)
}

// RequestValidatorFunc adapts a function to the [RequestValidator] interface.
type RequestValidatorFunc func(ctx context.Context, req Request, creds Credentials) (UserIdentity, error)

// ValidateResetRequest calls f.
func (f RequestValidatorFunc) ValidateResetRequest(ctx context.Context, req Request, creds Credentials) (UserIdentity, error) {
	return f(ctx, req, creds)
}

// DeliveryFunc is the optional per-call delivery override for
// [Broker.SendResetLink]. When non-nil it is invoked with the resolved user
// and the rendered link URL instead of any configured [Notifier].
type DeliveryFunc func(ctx context.Context, user UserIdentity, resetURL string) error

// ConfirmFunc receives the resolved user and the new plaintext password
// during [Broker.Reset]. Persisting the password (hashing included) happens
// entirely inside this callback.
type ConfirmFunc func(ctx context.Context, user UserIdentity, newPassword string) error
