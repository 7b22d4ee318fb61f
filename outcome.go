package goReset

// Outcome is the discriminated result code of a broker flow. Outcomes are
// recoverable terminal branches, not errors: callers map them to localized
// messages. Infrastructure faults (limiter backend down, directory contract
// violations) are reported through the error return instead.
type Outcome uint8

const (
	// OutcomeNone is the zero value, returned alongside a non-nil error.
	OutcomeNone Outcome = iota
	// OutcomeInvalidUser — the directory resolved no user for the credentials.
	OutcomeInvalidUser
	// OutcomeResetThrottled — a link was requested inside an active throttle
	// window; no link was built and no notification sent.
	OutcomeResetThrottled
	// OutcomeResetLinkSent — a link was built and handed to the delivery path.
	OutcomeResetLinkSent
	// OutcomeInvalidSignature — the request carried a missing, tampered, or
	// expired link signature.
	OutcomeInvalidSignature
	// OutcomeValid — validation succeeded; [ValidateResult.User] is set.
	OutcomeValid
	// OutcomePasswordReset — the confirm callback ran for a validated request.
	OutcomePasswordReset
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:             "none",
	OutcomeInvalidUser:      "invalid_user",
	OutcomeResetThrottled:   "reset_throttled",
	OutcomeResetLinkSent:    "reset_link_sent",
	OutcomeInvalidSignature: "invalid_signature",
	OutcomeValid:            "valid",
	OutcomePasswordReset:    "password_reset",
}

// String returns the snake_case name used in audit metadata.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// ValidateResult is the tagged result of [Broker.ValidateReset]. User is
// non-nil exactly when Outcome is [OutcomeValid], replacing the
// "user object or string code" discrimination the flow would otherwise force
// on callers.
type ValidateResult struct {
	Outcome Outcome
	User    UserIdentity
}

// Valid reports whether validation resolved a user.
func (r ValidateResult) Valid() bool {
	return r.Outcome == OutcomeValid && r.User != nil
}
