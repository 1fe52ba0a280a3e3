package auth_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/golang-jwt/jwt/v5"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		Issuer:         "passport-test",
		UserAccessTTL:  30 * 24 * time.Hour,
		UserRefreshTTL: 90 * 24 * time.Hour,
		RoleAccessTTL:  7 * 24 * time.Hour,
		RoleRefreshTTL: 30 * 24 * time.Hour,
	}
}

var alice = auth.Subject{ID: "acc-1", Email: "a@b.com"}

func TestTokenManager_AccessRoundTrip(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(testAuthConfig())

	token, err := m.Issue(alice, auth.Access)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := m.Verify(token, auth.Access)
	if claims == nil {
		t.Fatal("expected valid claims")
	}
	if claims.ID != "acc-1" || claims.Email != "a@b.com" || claims.Role != kernel.RoleNone {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenManager_KindsAreNotInterchangeable(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(testAuthConfig())

	pair, err := m.IssuePair(alice)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if m.Verify(pair.Token, auth.Refresh) != nil {
		t.Fatal("access token must not verify as refresh")
	}
	if m.Verify(pair.RefreshToken, auth.Access) != nil {
		t.Fatal("refresh token must not verify as access")
	}
	if m.Verify(pair.RefreshToken, auth.Refresh) == nil {
		t.Fatal("refresh token must verify as refresh")
	}
}

func TestTokenManager_Lifetimes(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	m := auth.NewTokenManager(testAuthConfig()).WithClock(func() time.Time { return clock })

	admin := auth.Subject{ID: "adm-1", Email: "ops@b.com", Role: kernel.RoleAdmin}

	cases := []struct {
		name    string
		subject auth.Subject
		kind    auth.TokenKind
		ttl     time.Duration
	}{
		{"user access", alice, auth.Access, 30 * 24 * time.Hour},
		{"user refresh", alice, auth.Refresh, 90 * 24 * time.Hour},
		{"role access", admin, auth.Access, 7 * 24 * time.Hour},
		{"role refresh", admin, auth.Refresh, 30 * 24 * time.Hour},
	}

	for _, tc := range cases {
		clock = now
		token, err := m.Issue(tc.subject, tc.kind)
		if err != nil {
			t.Fatalf("%s: Issue: %v", tc.name, err)
		}

		clock = now.Add(tc.ttl - time.Minute)
		if m.Verify(token, tc.kind) == nil {
			t.Fatalf("%s: expected token valid just before expiry", tc.name)
		}

		clock = now.Add(tc.ttl + time.Minute)
		if m.Verify(token, tc.kind) != nil {
			t.Fatalf("%s: expected token expired", tc.name)
		}
	}
}

func TestTokenManager_RejectsForeignAndMalformed(t *testing.T) {
	t.Parallel()
	m := auth.NewTokenManager(testAuthConfig())

	other := testAuthConfig()
	other.AccessSecret = "someone-else"
	foreign, _ := auth.NewTokenManager(other).Issue(alice, auth.Access)

	for name, token := range map[string]string{
		"empty":     "",
		"garbage":   "not.a.jwt",
		"foreign":   foreign,
		"truncated": foreign[:len(foreign)-3],
	} {
		if m.Verify(token, auth.Access) != nil {
			t.Fatalf("%s token must not verify", name)
		}
	}
}

func TestTokenManager_ValidatesClaimsShape(t *testing.T) {
	t.Parallel()
	cfg := testAuthConfig()
	m := auth.NewTokenManager(cfg)

	// Correctly signed but with an unknown role.
	claims := &auth.AccessClaims{
		ID:    "acc-1",
		Email: "a@b.com",
		Role:  kernel.Role("root"),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Issuer + "-access"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if m.Verify(token, auth.Access) != nil {
		t.Fatal("token with unknown role must be rejected by claim validation")
	}

	claims.Role = kernel.RoleNone
	claims.Email = ""
	token, _ = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
	if m.Verify(token, auth.Access) != nil {
		t.Fatal("token without email must be rejected by claim validation")
	}
}
