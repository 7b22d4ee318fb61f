package goReset

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Expires != time.Hour {
		t.Fatalf("Expires = %v, want 1h", cfg.Expires)
	}
	if cfg.Throttle != 60*time.Second {
		t.Fatalf("Throttle = %v, want 60s", cfg.Throttle)
	}
	if cfg.MaxAttempts != 1 {
		t.Fatalf("MaxAttempts = %d, want 1", cfg.MaxAttempts)
	}
	if !cfg.Audit.Enabled || !cfg.Audit.DropIfFull || cfg.Audit.BufferSize != 256 {
		t.Fatalf("Audit = %+v, want enabled drop-if-full buffer 256", cfg.Audit)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("Metrics must default to enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero expires":       func(c *Config) { c.Expires = 0 },
		"negative expires":   func(c *Config) { c.Expires = -time.Second },
		"sub-second expires": func(c *Config) { c.Expires = time.Second + 500*time.Millisecond },
		"zero throttle":      func(c *Config) { c.Throttle = 0 },
		"zero max attempts":  func(c *Config) { c.MaxAttempts = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Link.Secret = append([]byte(nil), testSecret...)

	cloned := cloneConfig(cfg)
	cfg.Link.Secret[0] ^= 0xff

	if cloned.Link.Secret[0] == cfg.Link.Secret[0] {
		t.Fatal("cloned secret must not alias the original")
	}
}
