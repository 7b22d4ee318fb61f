// Package prometheus renders broker counters in Prometheus text exposition
// format without pulling in the Prometheus client library.
package prometheus
