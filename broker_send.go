package goReset

import (
	"context"
	"fmt"
)

// SendResetLink resolves the credentials to a user, enforces the throttle,
// builds a signed reset link, and hands it to the delivery path.
//
// The outcome discriminates the terminal branch: [OutcomeInvalidUser] (no
// side effects), [OutcomeResetThrottled] (no link built, nothing delivered),
// or [OutcomeResetLinkSent]. A non-nil error reports an infrastructure fault;
// on delivery faults the throttle hit is already recorded, intentionally
// keeping the limiter conservative.
//
// onReady, when non-nil, receives the user and rendered URL and owns
// delivery. Otherwise delivery falls back to the identity's own
// [ResetNotifiable] capability, then to the configured [Notifier].
func (b *Broker) SendResetLink(ctx context.Context, creds Credentials, onReady DeliveryFunc) (Outcome, error) {
	if b == nil || b.directory == nil || b.limiter == nil {
		return OutcomeNone, ErrBrokerNotReady
	}

	user, err := b.resolveUser(ctx, creds)
	if err != nil {
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeNone, nil, err, nil)
		return OutcomeNone, err
	}
	if user == nil {
		b.metricInc(MetricInvalidUser)
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeInvalidUser, nil, nil, nil)
		return OutcomeInvalidUser, nil
	}

	throttled, err := b.checkAndHitThrottle(ctx, user)
	if err != nil {
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeNone, user, err, nil)
		return OutcomeNone, err
	}
	if throttled {
		b.metricInc(MetricResetThrottled)
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeResetThrottled, user, nil, nil)
		return OutcomeResetThrottled, nil
	}

	resetURL, err := b.buildResetURL(ctx, user)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrLinkUnavailable, err)
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeNone, user, wrapped, nil)
		return OutcomeNone, wrapped
	}

	if err := b.deliver(ctx, user, resetURL, onReady); err != nil {
		b.metricInc(MetricNotifyFailure)
		b.emitAudit(ctx, auditEventResetRequest, false, OutcomeNone, user, err, nil)
		return OutcomeNone, err
	}

	b.metricInc(MetricResetLinkSent)
	b.emitAudit(ctx, auditEventResetRequest, true, OutcomeResetLinkSent, user, nil, nil)
	return OutcomeResetLinkSent, nil
}

// checkAndHitThrottle enforces the per-email (and optional per-IP) window.
// With an [AtomicRateLimiter] the check and the hit are one operation per
// key; otherwise all keys are checked before any is hit, which tolerates the
// documented race where two concurrent requests both pass the check — the
// consequence is one extra email, not a security breach.
func (b *Broker) checkAndHitThrottle(ctx context.Context, user UserIdentity) (bool, error) {
	tenantID := tenantIDFromContext(ctx)
	keys := []string{throttleKey(tenantID, user.Email())}
	if b.enableIPThrottle {
		if ip := clientIPFromContext(ctx); ip != "" {
			keys = append(keys, throttleIPKey(tenantID, ip))
		}
	}
	decay := b.ResetLinkThrottle()

	if al, ok := b.limiter.(AtomicRateLimiter); ok {
		for _, key := range keys {
			limited, err := al.AttemptAndHit(ctx, key, b.maxAttempts, decay)
			if err != nil {
				return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
			}
			if limited {
				return true, nil
			}
		}
		return false, nil
	}

	for _, key := range keys {
		limited, err := b.limiter.TooManyAttempts(ctx, key, b.maxAttempts)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
		}
		if limited {
			return true, nil
		}
	}
	for _, key := range keys {
		if err := b.limiter.Hit(ctx, key, decay); err != nil {
			return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
		}
	}
	return false, nil
}

func (b *Broker) buildResetURL(ctx context.Context, user UserIdentity) (string, error) {
	if lb := b.currentLinkBuilder(); lb != nil {
		return lb.BuildResetURL(ctx, user)
	}
	if b.links == nil {
		return "", ErrBrokerNotReady
	}
	link, err := b.links.Create(user.ResetLookupKey(), user.Email(), b.ResetLinkExpiry())
	if err != nil {
		return "", err
	}
	return link.URL(), nil
}

func (b *Broker) deliver(ctx context.Context, user UserIdentity, resetURL string, onReady DeliveryFunc) error {
	if onReady != nil {
		if err := onReady(ctx, user, resetURL); err != nil {
			return fmt.Errorf("%w: %v", ErrNotifyFailed, err)
		}
		return nil
	}
	if notifiable, ok := user.(ResetNotifiable); ok {
		if err := notifiable.SendPasswordResetNotification(ctx, resetURL); err != nil {
			return fmt.Errorf("%w: %v", ErrNotifyFailed, err)
		}
		return nil
	}
	if b.notifier != nil {
		if err := b.notifier.SendPasswordReset(ctx, user, resetURL); err != nil {
			return fmt.Errorf("%w: %v", ErrNotifyFailed, err)
		}
		return nil
	}
	return ErrNotifierUnavailable
}
