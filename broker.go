package goReset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goReset/signedlink"
)

// Broker orchestrates the password-reset flow: credential-to-user resolution,
// per-identity throttling, signed-link creation, and reset validation. Build
// one with [Builder]; all methods are safe for concurrent use afterwards.
type Broker struct {
	directory UserDirectory
	limiter   RateLimiter
	links     *signedlink.Manager
	notifier  Notifier
	audit     *auditDispatcher
	metrics   *Metrics
	now       func() time.Time

	maxAttempts      int
	enableIPThrottle bool

	// Expiry and throttle are the only knobs mutable after Build, so they
	// live in atomics rather than in the cloned config.
	expirySecs   atomic.Int64
	throttleSecs atomic.Int64

	hookMu           sync.RWMutex
	linkBuilder      LinkBuilder
	requestValidator RequestValidator
}

// throttleKeyPrefix is the naming convention for the limiter bucket:
// "reset-password:" + email, tenant-scoped when a non-default tenant is set.
const throttleKeyPrefix = "reset-password:"

func throttleKey(tenantID, email string) string {
	if tenantID == "" || tenantID == "0" {
		return throttleKeyPrefix + email
	}
	return throttleKeyPrefix + tenantID + ":" + email
}

func throttleIPKey(tenantID, ip string) string {
	if tenantID == "" || tenantID == "0" {
		return throttleKeyPrefix + "ip:" + ip
	}
	return throttleKeyPrefix + "ip:" + tenantID + ":" + ip
}

// SetResetLinkExpiry sets the signed-link lifetime in minutes. The conversion
// to seconds is exact: SetResetLinkExpiry(60) yields links expiring precisely
// 3600 seconds after creation.
func (b *Broker) SetResetLinkExpiry(minutes int) {
	if b == nil || minutes <= 0 {
		return
	}
	b.expirySecs.Store(int64(minutes) * 60)
}

// SetResetLinkThrottle sets the per-identity throttle window in seconds.
func (b *Broker) SetResetLinkThrottle(seconds int) {
	if b == nil || seconds <= 0 {
		return
	}
	b.throttleSecs.Store(int64(seconds))
}

// ResetLinkExpiry returns the current signed-link lifetime.
func (b *Broker) ResetLinkExpiry() time.Duration {
	return time.Duration(b.expirySecs.Load()) * time.Second
}

// ResetLinkThrottle returns the current throttle window.
func (b *Broker) ResetLinkThrottle() time.Duration {
	return time.Duration(b.throttleSecs.Load()) * time.Second
}

// CreateURLUsing installs a custom link builder. SendResetLink then calls fn
// instead of the default signed-link manager. A nil fn restores the default.
func (b *Broker) CreateURLUsing(fn LinkBuilderFunc) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	if fn == nil {
		b.linkBuilder = nil
		return
	}
	b.linkBuilder = fn
}

// ValidateRequestUsing installs a custom request validator. ValidateReset
// then bypasses signature checking entirely and defers to fn. A nil fn
// restores the default.
func (b *Broker) ValidateRequestUsing(fn RequestValidatorFunc) {
	b.hookMu.Lock()
	defer b.hookMu.Unlock()
	if fn == nil {
		b.requestValidator = nil
		return
	}
	b.requestValidator = fn
}

func (b *Broker) currentLinkBuilder() LinkBuilder {
	b.hookMu.RLock()
	defer b.hookMu.RUnlock()
	return b.linkBuilder
}

func (b *Broker) currentRequestValidator() RequestValidator {
	b.hookMu.RLock()
	defer b.hookMu.RUnlock()
	return b.requestValidator
}

// Close shuts down the audit dispatcher, draining buffered events.
func (b *Broker) Close() {
	if b == nil {
		return
	}
	if b.audit != nil {
		b.audit.Close()
	}
}

// AuditDropped reports audit events discarded because the queue was full.
func (b *Broker) AuditDropped() uint64 {
	if b == nil || b.audit == nil {
		return 0
	}
	return b.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all broker counters.
func (b *Broker) MetricsSnapshot() MetricsSnapshot {
	if b == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return b.metrics.Snapshot()
}

func (b *Broker) metricInc(id MetricID) {
	if b == nil {
		return
	}
	b.metrics.Inc(id)
}

func (b *Broker) emitAudit(ctx context.Context, eventType string, success bool, outcome Outcome, user UserIdentity, flowErr error, metadata map[string]string) {
	if b == nil || b.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: b.now(),
		EventType: eventType,
		TenantID:  tenantIDFromContext(ctx),
		IP:        clientIPFromContext(ctx),
		Outcome:   outcome.String(),
		Success:   success,
		Metadata:  metadata,
	}
	if user != nil {
		event.UserKey = user.ResetLookupKey()
	}
	if flowErr != nil {
		event.Error = flowErr.Error()
	}

	b.audit.Emit(ctx, event)
}

// resolveUser looks up the credentials with the reset token stripped and
// enforces the identity contract. A (nil, nil) return means "no such user".
func (b *Broker) resolveUser(ctx context.Context, creds Credentials) (UserIdentity, error) {
	user, err := b.directory.RetrieveByCredentials(ctx, creds.WithoutToken())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if user == nil {
		return nil, nil
	}
	if user.ResetLookupKey() == "" || user.Email() == "" {
		return nil, ErrIdentityContract
	}
	return user, nil
}
