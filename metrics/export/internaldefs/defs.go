package internaldefs

import (
	goReset "github.com/MrEthical07/goReset"
)

// CounterDef maps one broker counter to its exported name and help text.
type CounterDef struct {
	ID   goReset.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported broker counter.
var CounterDefs = []CounterDef{
	{ID: goReset.MetricResetLinkSent, Name: "goreset_reset_link_sent_total", Help: "Reset links built and handed to delivery."},
	{ID: goReset.MetricResetThrottled, Name: "goreset_reset_throttled_total", Help: "Reset requests rejected by the throttle window."},
	{ID: goReset.MetricInvalidUser, Name: "goreset_invalid_user_total", Help: "Flows where the directory resolved no user."},
	{ID: goReset.MetricInvalidSignature, Name: "goreset_invalid_signature_total", Help: "Requests with a missing, tampered, or expired link signature."},
	{ID: goReset.MetricPasswordReset, Name: "goreset_password_reset_total", Help: "Completed password resets."},
	{ID: goReset.MetricNotifyFailure, Name: "goreset_notify_failure_total", Help: "Links built but not delivered."},
}

// AuditDroppedDef describes the audit drop counter exposed next to the flow
// counters.
var AuditDroppedDef = CounterDef{
	Name: "goreset_audit_dropped_total",
	Help: "Audit events discarded because the dispatch queue was full.",
}
