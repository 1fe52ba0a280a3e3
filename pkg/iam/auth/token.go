package auth

import (
	"errors"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

// TokenKind selects the secret, audience and lifetime of a token.
type TokenKind int

const (
	Access TokenKind = iota
	Refresh
)

func (k TokenKind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

// Subject is what a token is issued for.
type Subject struct {
	ID    kernel.AccountID
	Email string
	Role  kernel.Role
}

// AccessClaims is the typed payload of both token kinds.
type AccessClaims struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  kernel.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Validate is invoked by the jwt parser after the registered claims checks.
func (c *AccessClaims) Validate() error {
	if c.ID == "" {
		return errors.New("missing id claim")
	}
	if c.Email == "" {
		return errors.New("missing email claim")
	}
	if !c.Role.IsValid() {
		return errors.New("unknown role claim")
	}
	return nil
}

// AsSubject converts the claims back into the subject they were issued for.
func (c *AccessClaims) AsSubject() Subject {
	return Subject{ID: kernel.AccountID(c.ID), Email: c.Email, Role: c.Role}
}

// TokenPair is returned by every successful authentication.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager issues and verifies HS256 access and refresh tokens.
type TokenManager struct {
	cfg config.AuthConfig
	now func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	if cfg.Issuer == "" {
		cfg.Issuer = "passport"
	}
	return &TokenManager{cfg: cfg, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

func (m *TokenManager) secret(kind TokenKind) []byte {
	if kind == Refresh {
		return []byte(m.cfg.RefreshSecret)
	}
	return []byte(m.cfg.AccessSecret)
}

func (m *TokenManager) audience(kind TokenKind) string {
	return m.cfg.Issuer + "-" + kind.String()
}

func (m *TokenManager) ttl(s Subject, kind TokenKind) time.Duration {
	switch {
	case s.Role != kernel.RoleNone && kind == Refresh:
		return m.cfg.RoleRefreshTTL
	case s.Role != kernel.RoleNone:
		return m.cfg.RoleAccessTTL
	case kind == Refresh:
		return m.cfg.UserRefreshTTL
	default:
		return m.cfg.UserAccessTTL
	}
}

// Issue signs a token of the given kind for s.
func (m *TokenManager) Issue(s Subject, kind TokenKind) (string, error) {
	now := m.now()
	claims := &AccessClaims{
		ID:    s.ID.String(),
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   s.ID.String(),
			Audience:  jwt.ClaimStrings{m.audience(kind)},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(s, kind))),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret(kind))
	if err != nil {
		return "", ErrTokenGenerationFailed().WithCause(err).WithDetail("kind", kind.String())
	}
	return signed, nil
}

// IssuePair signs an access and a refresh token for s.
func (m *TokenManager) IssuePair(s Subject) (TokenPair, error) {
	access, err := m.Issue(s, Access)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.Issue(s, Refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refresh}, nil
}

// Verify returns the claims of a valid token of the given kind, or nil.
// Bad signatures, wrong kind, expiry and malformed claims all yield nil.
func (m *TokenManager) Verify(token string, kind TokenKind) *AccessClaims {
	if token == "" {
		return nil
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return m.secret(kind), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(m.audience(kind)),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}
