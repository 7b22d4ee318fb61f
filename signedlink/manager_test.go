package signedlink

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T, strategy Strategy, now func() time.Time) *Manager {
	t.Helper()

	manager, err := NewManager(Config{Secret: testSecret, Strategy: strategy, Now: now})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewManager(Config{Secret: testSecret, Strategy: Strategy(99)}); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestNewManagerNormalizesRoute(t *testing.T) {
	manager, err := NewManager(Config{Secret: testSecret, Route: "reset/here"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	link, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(link.URL(), "/reset/here?") {
		t.Fatalf("URL = %s, want leading slash on route", link.URL())
	}
}

func TestCreateRendersBaseURL(t *testing.T) {
	manager, err := NewManager(Config{Secret: testSecret, BaseURL: "https://app.example.com/"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	link, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(link.URL(), "https://app.example.com/password/reset?") {
		t.Fatalf("URL = %s, want absolute URL without doubled slash", link.URL())
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)
	if _, err := manager.Create("", "a@x.com", time.Hour); err == nil {
		t.Fatal("expected error for empty lookup key")
	}
	if _, err := manager.Create("u1", "a@x.com", -time.Second); err == nil {
		t.Fatal("expected error for negative ttl")
	}
}

// The expiry boundary is inclusive: a link stays valid through its exact
// expiry second and fails one second later, under both strategies.
func TestVerifyExpiryBoundary(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)

	for _, strategy := range []Strategy{StrategySignedQuery, StrategyJWT} {
		name := "signed_query"
		if strategy == StrategyJWT {
			name = "jwt"
		}
		t.Run(name, func(t *testing.T) {
			current := start
			manager := newTestManager(t, strategy, func() time.Time { return current })

			link, err := manager.Create("u1", "a@x.com", time.Hour)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			checks := []struct {
				offset time.Duration
				want   bool
			}{
				{0, true},
				{3599 * time.Second, true},
				{3600 * time.Second, true},
				{3601 * time.Second, false},
			}
			for _, check := range checks {
				current = start.Add(check.offset)
				key, ok := manager.Verify(link.Params())
				if ok != check.want {
					t.Fatalf("at +%v: ok = %v, want %v", check.offset, ok, check.want)
				}
				if ok && key != "u1" {
					t.Fatalf("at +%v: key = %s, want u1", check.offset, key)
				}
			}
		})
	}
}

func TestVerifyZeroTTLLink(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	current := start
	manager := newTestManager(t, StrategySignedQuery, func() time.Time { return current })

	link, err := manager.Create("u1", "a@x.com", 0)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, ok := manager.Verify(link.Params()); !ok {
		t.Fatal("zero-ttl link must verify within its creation second")
	}

	current = start.Add(time.Second)
	if _, ok := manager.Verify(link.Params()); ok {
		t.Fatal("zero-ttl link must fail one second after creation")
	}
}

func TestVerifyRejectsTamperedQuery(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)
	link, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	cases := map[string]func(url.Values){
		"changed id":      func(v url.Values) { v.Set("id", "u2") },
		"changed email":   func(v url.Values) { v.Set("email", "evil@x.com") },
		"changed expires": func(v url.Values) { v.Set("expires", "9999999999") },
		"changed nonce":   func(v url.Values) { v.Set("nonce", "other") },
		"added parameter": func(v url.Values) { v.Set("extra", "1") },
		"dropped expires": func(v url.Values) { v.Del("expires") },
		"dropped id":      func(v url.Values) { v.Del("id") },
		"flipped signature byte": func(v url.Values) {
			sig := []byte(v.Get("signature"))
			if sig[0] == '0' {
				sig[0] = '1'
			} else {
				sig[0] = '0'
			}
			v.Set("signature", string(sig))
		},
		"empty signature": func(v url.Values) { v.Del("signature") },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			params := link.Params()
			mutate(params)
			if _, ok := manager.Verify(params); ok {
				t.Fatal("tampered link must not verify")
			}
		})
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	for _, strategy := range []Strategy{StrategySignedQuery, StrategyJWT} {
		name := "signed_query"
		if strategy == StrategyJWT {
			name = "jwt"
		}
		t.Run(name, func(t *testing.T) {
			minter := newTestManager(t, strategy, nil)
			link, err := minter.Create("u1", "a@x.com", time.Hour)
			if err != nil {
				t.Fatalf("Create failed: %v", err)
			}

			other, err := NewManager(Config{
				Secret:   []byte("ffffffffffffffffffffffffffffffff"),
				Strategy: strategy,
			})
			if err != nil {
				t.Fatalf("NewManager failed: %v", err)
			}
			if _, ok := other.Verify(link.Params()); ok {
				t.Fatal("link signed with a different secret must not verify")
			}
		})
	}
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	manager := newTestManager(t, StrategyJWT, nil)

	for name, token := range map[string]string{
		"empty":      "",
		"not a jwt":  "nope",
		"wrong alg":  "eyJhbGciOiJub25lIn0.e30.",
		"no payload": "a.b",
	} {
		t.Run(name, func(t *testing.T) {
			if _, ok := manager.Verify(url.Values{"token": {token}}); ok {
				t.Fatal("malformed token must not verify")
			}
		})
	}
}

func TestVerifyNilInputs(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)
	if _, ok := manager.Verify(nil); ok {
		t.Fatal("nil values must not verify")
	}
	if _, ok := manager.Verify(url.Values{}); ok {
		t.Fatal("empty values must not verify")
	}

	var nilManager *Manager
	if _, ok := nilManager.Verify(url.Values{}); ok {
		t.Fatal("nil manager must not verify")
	}
}

func TestLinkParamsReturnsCopy(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)
	link, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first := link.Params()
	first.Set("id", "mutated")
	if got := link.Params().Get("id"); got != "u1" {
		t.Fatalf("id = %s, want original value after caller mutation", got)
	}
}

func TestCreateUsesUniqueNonces(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)

	first, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if first.Params().Get("nonce") == second.Params().Get("nonce") {
		t.Fatal("consecutive links reused a nonce")
	}
}

func TestLinkURLRoundTripsThroughParse(t *testing.T) {
	manager := newTestManager(t, StrategySignedQuery, nil)
	link, err := manager.Create("u1", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	parsed, err := url.Parse(link.URL())
	if err != nil {
		t.Fatalf("parse rendered URL: %v", err)
	}
	key, ok := manager.Verify(parsed.Query())
	if !ok || key != "u1" {
		t.Fatalf("Verify(parsed query) = (%s, %v), want (u1, true)", key, ok)
	}
}
