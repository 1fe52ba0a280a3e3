package otp_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/iam/otp"
)

func TestGenerateCode(t *testing.T) {
	for _, n := range []int{6, 8} {
		code, err := otp.GenerateCode(n)
		if err != nil {
			t.Fatalf("GenerateCode(%d): %v", n, err)
		}
		if len(code) != n {
			t.Fatalf("expected %d digits, got %q", n, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in %q", code)
			}
		}
	}

	code, err := otp.GenerateSignedURLCode()
	if err != nil || len(code) != otp.SignedURLCodeLength {
		t.Fatalf("signed url code = %q, %v", code, err)
	}
}

func TestScopeKey(t *testing.T) {
	a := otp.Scope{Email: " Alice@Example.com "}
	b := otp.EmailScope("alice@example.com")
	if a.Key() != b.Key() {
		t.Fatalf("keys differ: %q vs %q", a.Key(), b.Key())
	}
	if (otp.Scope{}).IsEmpty() != true {
		t.Fatal("zero scope should be empty")
	}
	if otp.EmailScope("a@b.c").Key() == (otp.Scope{Phone: "a@b.c"}).Key() {
		t.Fatal("email and phone scopes must not collide")
	}
}

func TestChallengeExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &otp.Challenge{CreatedAt: now.Add(-20 * time.Minute)}

	if !c.IsExpired(now, 15*time.Minute) {
		t.Fatal("expected expired")
	}
	if c.IsExpired(now, time.Hour) {
		t.Fatal("expected live")
	}
	if c.IsExpired(now, 0) {
		t.Fatal("zero ttl never expires")
	}
}
