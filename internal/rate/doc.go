// Package rate implements the default fixed-window rate limiter backing the
// broker's reset throttle, using Redis counters with a per-key decay TTL.
package rate
