// Package signedlink builds and verifies expiring, tamper-evident action
// links. A link binds a target identity and an absolute expiry to a signature
// derived from a process-wide secret, so validity can be checked without any
// server-side token state.
//
// Two encodings are supported: HMAC-signed query parameters (the default) and
// a single HS256 JWT parameter. Both enforce the same boundary rule — a link
// is valid through its exact expiry second.
package signedlink
