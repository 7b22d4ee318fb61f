package goReset

import (
	"errors"
	"time"

	"github.com/MrEthical07/goReset/internal/rate"
	"github.com/MrEthical07/goReset/signedlink"
	"github.com/redis/go-redis/v9"
)

// Builder assembles a [Broker]. Configure collaborators with the With*
// methods, then call Build exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	directory UserDirectory
	limiter   RateLimiter
	notifier  Notifier
	auditSink AuditSink

	linkBuilder      LinkBuilder
	requestValidator RequestValidator

	built bool
}

// New returns a builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the default rate limiter.
// Ignored when an explicit [RateLimiter] is set via WithRateLimiter.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithUserDirectory supplies the credential-to-user resolver. Required.
func (b *Builder) WithUserDirectory(directory UserDirectory) *Builder {
	b.directory = directory
	return b
}

// WithRateLimiter replaces the default Redis-backed limiter.
func (b *Builder) WithRateLimiter(limiter RateLimiter) *Builder {
	b.limiter = limiter
	return b
}

// WithNotifier supplies the fallback delivery path used when the resolved
// identity is not [ResetNotifiable] and no per-call callback is given.
func (b *Builder) WithNotifier(notifier Notifier) *Builder {
	b.notifier = notifier
	return b
}

// WithAuditSink supplies the sink receiving broker audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLinkBuilder installs a custom link builder at construction time,
// equivalent to calling [Broker.CreateURLUsing] after Build.
func (b *Builder) WithLinkBuilder(lb LinkBuilder) *Builder {
	b.linkBuilder = lb
	return b
}

// WithRequestValidator installs a custom request validator at construction
// time, equivalent to calling [Broker.ValidateRequestUsing] after Build.
func (b *Builder) WithRequestValidator(rv RequestValidator) *Builder {
	b.requestValidator = rv
	return b
}

// WithMetricsEnabled toggles the broker counter set.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires defaults for missing
// collaborators, and returns the broker.
func (b *Builder) Build() (*Broker, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.directory == nil {
		return nil, errors.New("user directory required")
	}

	limiter := b.limiter
	if limiter == nil {
		if b.redis == nil {
			return nil, errors.New("rate limiter or redis client required")
		}
		limiter = rate.New(b.redis)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	// The signed-link manager is only optional when both hooks replace it.
	var links *signedlink.Manager
	if b.linkBuilder == nil || b.requestValidator == nil {
		linkCfg := cfg.Link
		if linkCfg.Now == nil {
			linkCfg.Now = now
		}
		var err error
		links, err = signedlink.NewManager(linkCfg)
		if err != nil {
			return nil, err
		}
	}

	broker := &Broker{
		directory:        b.directory,
		limiter:          limiter,
		links:            links,
		notifier:         b.notifier,
		audit:            newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:          newMetrics(cfg.Metrics),
		now:              now,
		maxAttempts:      cfg.MaxAttempts,
		enableIPThrottle: cfg.EnableIPThrottle,
		linkBuilder:      b.linkBuilder,
		requestValidator: b.requestValidator,
	}
	broker.expirySecs.Store(int64(cfg.Expires / time.Second))
	broker.throttleSecs.Store(int64(cfg.Throttle / time.Second))

	b.built = true
	return broker, nil
}
