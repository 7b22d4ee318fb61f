package goReset

import (
	"errors"
	"time"

	"github.com/MrEthical07/goReset/signedlink"
)

// Config holds broker tuning parameters. Obtain a baseline with
// [DefaultConfig] and override fields before [Builder.Build]; after Build the
// only mutable knobs are [Broker.SetResetLinkExpiry] and
// [Broker.SetResetLinkThrottle].
type Config struct {
	// Expires is the signed-link lifetime. Default 1 hour.
	Expires time.Duration
	// Throttle is the window during which at most MaxAttempts reset links may
	// be requested per throttle key. Default 60 seconds.
	Throttle time.Duration
	// MaxAttempts is the number of link requests allowed per Throttle window.
	// Default 1.
	MaxAttempts int
	// EnableIPThrottle additionally throttles per client IP when the context
	// carries one (see [WithClientIP]).
	EnableIPThrottle bool

	Link    signedlink.Config
	Audit   AuditConfig
	Metrics MetricsConfig

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled bool
	// BufferSize bounds the in-flight event queue. Default 256 when enabled.
	BufferSize int
	// DropIfFull drops events instead of blocking when the queue is full.
	// Dropped counts are visible via [Broker.AuditDropped].
	DropIfFull bool
}

// MetricsConfig controls the atomic counter set exposed by
// [Broker.MetricsSnapshot].
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: one reset link per
// identity per minute, links valid for one hour, audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		Expires:     time.Hour,
		Throttle:    60 * time.Second,
		MaxAttempts: 1,
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func defaultConfig() Config { return DefaultConfig() }

// Validate checks invariants that would otherwise surface as runtime
// misbehavior.
func (c Config) Validate() error {
	if c.Expires <= 0 {
		return errors.New("Expires must be > 0")
	}
	if c.Expires%time.Second != 0 {
		return errors.New("Expires must be a whole number of seconds")
	}
	if c.Throttle <= 0 {
		return errors.New("Throttle must be > 0")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("MaxAttempts must be > 0")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("Audit BufferSize must be >= 0")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Link.Secret) > 0 {
		out.Link.Secret = make([]byte, len(cfg.Link.Secret))
		copy(out.Link.Secret, cfg.Link.Secret)
	}
	return out
}
