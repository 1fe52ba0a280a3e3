package account

import (
	"net/mail"
	"strings"
	"time"

	"github.com/Abraxas-365/passport/pkg/kernel"
)

// ============================================================================
// Types
// ============================================================================

// LoginMethod is how the account last authenticated.
type LoginMethod string

const (
	LoginDefault  LoginMethod = "default"
	LoginGoogle   LoginMethod = "google"
	LoginFacebook LoginMethod = "facebook"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

const (
	LanguageVietnamese = "vi"
	LanguageEnglish    = "en"
)

// ============================================================================
// Entity
// ============================================================================

// Account is an end-user identity. Accounts are never hard-deleted.
type Account struct {
	ID            kernel.AccountID `db:"id"`
	Email         string           `db:"email"`
	Name          string           `db:"name"`
	Phone         string           `db:"phone"`
	PasswordHash  string           `db:"password_hash"`
	LoginMethod   LoginMethod      `db:"login_method"`
	UID           string           `db:"uid"`
	Avatar        string           `db:"avatar"`
	EmailVerified bool             `db:"email_verified"`
	Language      string           `db:"language"`
	Country       string           `db:"country"`
	IP            string           `db:"ip"`
	Status        Status           `db:"status"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// Touch refreshes UpdatedAt.
func (a *Account) Touch() {
	a.UpdatedAt = time.Now().UTC()
}

// Caller returns the identity the authorization gate attaches to requests.
func (a *Account) Caller() *kernel.Caller {
	return &kernel.Caller{AccountID: a.ID, Email: a.Email}
}

// AccountDTO is the public representation. It never carries the password hash.
type AccountDTO struct {
	ID            kernel.AccountID `json:"id"`
	Email         string           `json:"email"`
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Avatar        string           `json:"avatar"`
	LoginMethod   LoginMethod      `json:"typeLogin"`
	EmailVerified bool             `json:"emailVerify"`
	Language      string           `json:"language"`
	Country       string           `json:"country"`
	IP            string           `json:"ip"`
	Status        Status           `json:"status"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func (a *Account) ToDTO() AccountDTO {
	return AccountDTO{
		ID:            a.ID,
		Email:         a.Email,
		Name:          a.Name,
		Phone:         a.Phone,
		Avatar:        a.Avatar,
		LoginMethod:   a.LoginMethod,
		EmailVerified: a.EmailVerified,
		Language:      a.Language,
		Country:       a.Country,
		IP:            a.IP,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ============================================================================
// Helpers
// ============================================================================

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email parses as a bare address.
func ValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// NameFromEmail returns the local part of an address.
func NameFromEmail(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// DefaultLanguage picks the initial language from the client country.
func DefaultLanguage(country string) string {
	if strings.EqualFold(country, "VN") {
		return LanguageVietnamese
	}
	return LanguageEnglish
}
