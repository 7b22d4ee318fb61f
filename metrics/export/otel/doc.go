// Package otel bridges broker counters to OpenTelemetry observable
// instruments, pulling values from snapshots on each collection.
package otel
