package otp

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// Purpose tags what a challenge proves.
type Purpose string

const (
	PurposeForgotPassword    Purpose = "forgot_password"
	PurposeVerificationEmail Purpose = "verification_email"
)

const (
	// CodeLength is used for e-mail and phone challenges.
	CodeLength = 6
	// SignedURLCodeLength is used for codes embedded in signed links.
	SignedURLCodeLength = 8
)

// Scope is the channel a challenge is bound to.
type Scope struct {
	Email string
	Phone string
}

// EmailScope scopes a challenge to an e-mail address.
func EmailScope(email string) Scope {
	return Scope{Email: email}
}

// Key is the normalized storage key of the scope.
func (s Scope) Key() string {
	return strings.ToLower(strings.TrimSpace(s.Email)) + "|" + strings.TrimSpace(s.Phone)
}

func (s Scope) IsEmpty() bool {
	return strings.TrimSpace(s.Email) == "" && strings.TrimSpace(s.Phone) == ""
}

// Challenge is a live one-time code. At most one exists per (scope, purpose).
type Challenge struct {
	ID        string    `db:"id" json:"id"`
	ScopeKey  string    `db:"scope_key" json:"scope_key"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Purpose   Purpose   `db:"purpose" json:"purpose"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the challenge outlived ttl. A zero ttl never expires.
func (c *Challenge) IsExpired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(c.CreatedAt) > ttl
}

// Status tells the caller whether Generate created a challenge.
type Status string

const (
	StatusNew   Status = "new"
	StatusExist Status = "exist"
)

type GenerateResult struct {
	Status    Status
	Challenge *Challenge
}

// IsNew reports whether a notification should be sent for this result.
func (r *GenerateResult) IsNew() bool {
	return r.Status == StatusNew
}

var ten = big.NewInt(10)

// GenerateCode returns length digits, each drawn independently and uniformly from 0-9.
func GenerateCode(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// GenerateSignedURLCode returns an 8 digit code for signed links.
func GenerateSignedURLCode() (string, error) {
	return GenerateCode(SignedURLCodeLength)
}
