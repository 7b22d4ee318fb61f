package goReset

import "context"

// ValidateReset resolves the credentials to a user and checks the signed link
// carried by the request. The result is tagged: User is set exactly when
// Outcome is [OutcomeValid].
//
// When a custom [RequestValidator] is installed (via [Builder] or
// [Broker.ValidateRequestUsing]) signature checking is bypassed entirely: a
// non-nil identity from the validator overrides the resolved user, a nil
// identity falls back to it, and an error propagates as a fault.
func (b *Broker) ValidateReset(ctx context.Context, req Request, creds Credentials) (ValidateResult, error) {
	if b == nil || b.directory == nil {
		return ValidateResult{}, ErrBrokerNotReady
	}

	user, err := b.resolveUser(ctx, creds)
	if err != nil {
		b.emitAudit(ctx, auditEventResetValidate, false, OutcomeNone, nil, err, nil)
		return ValidateResult{}, err
	}
	if user == nil {
		b.metricInc(MetricInvalidUser)
		b.emitAudit(ctx, auditEventResetValidate, false, OutcomeInvalidUser, nil, nil, nil)
		return ValidateResult{Outcome: OutcomeInvalidUser}, nil
	}

	if rv := b.currentRequestValidator(); rv != nil {
		resolved, err := rv.ValidateResetRequest(ctx, req, creds)
		if err != nil {
			b.emitAudit(ctx, auditEventResetValidate, false, OutcomeNone, user, err, customValidatorMeta)
			return ValidateResult{}, err
		}
		if resolved != nil {
			user = resolved
		}
		b.emitAudit(ctx, auditEventResetValidate, true, OutcomeValid, user, nil, customValidatorMeta)
		return ValidateResult{Outcome: OutcomeValid, User: user}, nil
	}

	if b.links == nil {
		return ValidateResult{}, ErrBrokerNotReady
	}
	if req == nil {
		return b.invalidSignature(ctx, user), nil
	}
	lookupKey, ok := b.links.Verify(req.LinkParams())
	if !ok || lookupKey != user.ResetLookupKey() {
		return b.invalidSignature(ctx, user), nil
	}

	b.emitAudit(ctx, auditEventResetValidate, true, OutcomeValid, user, nil, nil)
	return ValidateResult{Outcome: OutcomeValid, User: user}, nil
}

var customValidatorMeta = map[string]string{"validator": "custom"}

func (b *Broker) invalidSignature(ctx context.Context, user UserIdentity) ValidateResult {
	b.metricInc(MetricInvalidSignature)
	b.emitAudit(ctx, auditEventResetValidate, false, OutcomeInvalidSignature, user, nil, nil)
	return ValidateResult{Outcome: OutcomeInvalidSignature}
}

// Reset validates the request and, on success, hands the resolved user and
// the new password to onConfirmed. The broker never persists the password;
// hashing and storage happen inside the callback. Validation failures
// propagate unchanged as the corresponding outcome.
func (b *Broker) Reset(ctx context.Context, req Request, creds Credentials, onConfirmed ConfirmFunc) (Outcome, error) {
	if b == nil {
		return OutcomeNone, ErrBrokerNotReady
	}
	if onConfirmed == nil {
		return OutcomeNone, ErrConfirmCallbackMissing
	}

	result, err := b.ValidateReset(ctx, req, creds)
	if err != nil {
		return OutcomeNone, err
	}
	if !result.Valid() {
		return result.Outcome, nil
	}

	newPassword := creds.Password()
	if newPassword == "" {
		b.emitAudit(ctx, auditEventResetConfirm, false, OutcomeNone, result.User, ErrPasswordMissing, nil)
		return OutcomeNone, ErrPasswordMissing
	}

	if err := onConfirmed(ctx, result.User, newPassword); err != nil {
		b.emitAudit(ctx, auditEventResetConfirm, false, OutcomeNone, result.User, err, nil)
		return OutcomeNone, err
	}

	b.metricInc(MetricPasswordReset)
	b.emitAudit(ctx, auditEventResetConfirm, true, OutcomePasswordReset, result.User, nil, nil)
	return OutcomePasswordReset, nil
}
