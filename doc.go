// Package goReset provides a stateless password-reset broker built around
// signed, expiring action links and a per-identity request throttle.
//
// The broker orchestrates three collaborators: a [UserDirectory] that resolves
// caller-supplied credentials to a user identity, a [RateLimiter] that bounds
// how often reset links may be requested per identity, and a signed-link
// manager that produces and verifies tamper-evident links. Link validity is a
// pure function of the current time and an HMAC (or JWT) signature — no
// per-token server state is kept, so a broker instance scales horizontally
// with no shared storage beyond the rate limiter.
//
// # Architecture boundaries
//
// goReset is the public surface. It exposes [Broker], [Builder], [Config],
// outcome codes, and the collaborator interfaces. Rate limiting internals
// live under internal/ and are never exported. HTTP routing, user storage,
// password hashing, and notification transports are explicitly the caller's
// concern: the broker only invokes the interfaces it is handed.
//
// # What this package must NOT do
//
//   - Persist or hash passwords. The new password is passed through to the
//     caller's confirm callback and never stored.
//   - Expose Redis clients or link-encoding details in its public API.
//   - Produce user-facing text. Flows report [Outcome] codes; mapping them to
//     messages is the caller's job.
//
// # Concurrency contract
//
// Broker methods are safe to call from multiple goroutines after
// [Builder.Build]. Each call is a complete, independent flow; the only
// cross-call state is the rate limiter counter and the self-verifying
// signed link.
package goReset
