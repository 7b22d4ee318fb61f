package signedlink

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Strategy selects the link encoding.
type Strategy uint8

const (
	// StrategySignedQuery encodes the target, expiry, and a nonce as query
	// parameters signed with HMAC-SHA256 over the canonical query string.
	StrategySignedQuery Strategy = iota
	// StrategyJWT encodes the same payload as a single HS256 token parameter.
	StrategyJWT
)

const (
	paramID        = "id"
	paramEmail     = "email"
	paramExpires   = "expires"
	paramNonce     = "nonce"
	paramSignature = "signature"
	paramToken     = "token"

	defaultRoute = "/password/reset"
)

// Config holds link manager tuning parameters. Secret is required; everything
// else has usable defaults.
type Config struct {
	Secret   []byte
	Strategy Strategy
	// BaseURL is the scheme and host rendered in front of Route, for example
	// "https://app.example.com". Links render as relative URLs when empty.
	BaseURL string
	// Route is the path the signature covers. Defaults to "/password/reset".
	Route string
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Manager creates and verifies signed links. Managers are immutable after
// NewManager and safe for concurrent use.
type Manager struct {
	secret   []byte
	strategy Strategy
	baseURL  string
	route    string
	now      func() time.Time
}

// NewManager validates cfg and returns a link manager.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("signedlink: secret required")
	}
	switch cfg.Strategy {
	case StrategySignedQuery, StrategyJWT:
	default:
		return nil, errors.New("signedlink: unknown strategy")
	}

	route := cfg.Route
	if route == "" {
		route = defaultRoute
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret:   secret,
		strategy: cfg.Strategy,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		route:    route,
		now:      now,
	}, nil
}

// Link is an immutable signed action link. Validity is a pure function of the
// current time and the signature; nothing is mutated after creation.
type Link struct {
	values    url.Values
	expiresAt time.Time
	rendered  string
}

// URL renders the link, including BaseURL when configured.
func (l *Link) URL() string { return l.rendered }

// Params returns a copy of the link's query parameters.
func (l *Link) Params() url.Values {
	out := make(url.Values, len(l.values))
	for k, vs := range l.values {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// ExpiresAt returns the absolute expiry. The link verifies through this exact
// second and fails afterwards.
func (l *Link) ExpiresAt() time.Time { return l.expiresAt }

type linkClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Create builds a link for the identity's lookup key expiring ttl from now.
// A ttl of zero produces a link that is only valid within its creation
// second. Create has no side effects beyond computation.
func (m *Manager) Create(lookupKey, email string, ttl time.Duration) (*Link, error) {
	if lookupKey == "" {
		return nil, errors.New("signedlink: empty lookup key")
	}
	if ttl < 0 {
		return nil, errors.New("signedlink: negative ttl")
	}

	expiresAt := m.now().Add(ttl).Truncate(time.Second)
	values := url.Values{}

	switch m.strategy {
	case StrategySignedQuery:
		values.Set(paramID, lookupKey)
		if email != "" {
			values.Set(paramEmail, email)
		}
		values.Set(paramExpires, strconv.FormatInt(expiresAt.Unix(), 10))
		values.Set(paramNonce, uuid.NewString())
		values.Set(paramSignature, m.sign(values))

	case StrategyJWT:
		claims := linkClaims{
			Email: email,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   lookupKey,
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				IssuedAt:  jwt.NewNumericDate(m.now()),
				ID:        uuid.NewString(),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
		if err != nil {
			return nil, err
		}
		values.Set(paramToken, token)
	}

	return &Link{
		values:    values,
		expiresAt: expiresAt,
		rendered:  m.baseURL + m.route + "?" + values.Encode(),
	}, nil
}

// Verify checks the signature and expiry of the given link parameters and
// returns the verified target lookup key. It never panics or returns an
// error: malformed input, missing fields, a tampered payload, or an expired
// link all report ok == false.
//
// Boundary rule: a link is valid while now <= expiry, i.e. through its exact
// expiry second, for both strategies.
func (m *Manager) Verify(values url.Values) (lookupKey string, ok bool) {
	if m == nil || values == nil {
		return "", false
	}
	switch m.strategy {
	case StrategySignedQuery:
		return m.verifySignedQuery(values)
	case StrategyJWT:
		return m.verifyJWT(values.Get(paramToken))
	}
	return "", false
}

func (m *Manager) verifySignedQuery(values url.Values) (string, bool) {
	provided := values.Get(paramSignature)
	if provided == "" {
		return "", false
	}

	// The signature covers every parameter except itself, so adding or
	// reordering parameters invalidates the link.
	payload := url.Values{}
	for k, vs := range values {
		if k == paramSignature {
			continue
		}
		payload[k] = vs
	}

	expected := m.sign(payload)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return "", false
	}

	expires, err := strconv.ParseInt(values.Get(paramExpires), 10, 64)
	if err != nil {
		return "", false
	}
	if m.now().Unix() > expires {
		return "", false
	}

	id := values.Get(paramID)
	if id == "" {
		return "", false
	}
	return id, true
}

func (m *Manager) verifyJWT(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	// Expiry is checked manually below so both strategies share the same
	// inclusive boundary second.
	claims := &linkClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return "", false
	}
	if claims.ExpiresAt == nil || m.now().Unix() > claims.ExpiresAt.Unix() {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func (m *Manager) sign(payload url.Values) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(m.route))
	mac.Write([]byte{'?'})
	mac.Write([]byte(payload.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}
