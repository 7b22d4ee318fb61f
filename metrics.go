package goReset

import "sync/atomic"

// MetricID identifies one broker counter.
type MetricID uint16

const (
	// MetricResetLinkSent counts flows ending in [OutcomeResetLinkSent].
	MetricResetLinkSent MetricID = iota
	// MetricResetThrottled counts flows ending in [OutcomeResetThrottled].
	MetricResetThrottled
	// MetricInvalidUser counts flows ending in [OutcomeInvalidUser].
	MetricInvalidUser
	// MetricInvalidSignature counts flows ending in [OutcomeInvalidSignature].
	MetricInvalidSignature
	// MetricPasswordReset counts flows ending in [OutcomePasswordReset].
	MetricPasswordReset
	// MetricNotifyFailure counts links that were built but failed delivery.
	MetricNotifyFailure

	metricCount
)

var metricNames = [metricCount]string{
	MetricResetLinkSent:    "reset_link_sent",
	MetricResetThrottled:   "reset_throttled",
	MetricInvalidUser:      "invalid_user",
	MetricInvalidSignature: "invalid_signature",
	MetricPasswordReset:    "password_reset",
	MetricNotifyFailure:    "notify_failure",
}

// String returns the metric's short name.
func (id MetricID) String() string {
	if id < metricCount {
		return metricNames[id]
	}
	return "unknown"
}

// Metrics is a fixed set of lock-free counters. Inc is wait-free; Snapshot is
// a consistent-enough point-in-time copy (counters are read individually).
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	return &Metrics{}
}

// Inc increments the counter. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a copy of all counters at one point in time.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
