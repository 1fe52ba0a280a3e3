package account

import (
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 6
	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (r RegisterRequest) Validate() error {
	if !ValidEmail(NormalizeEmail(r.Email)) {
		return ErrInvalidInput("email", "must be a valid e-mail address")
	}
	return ValidatePassword("password", r.Password)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SocialLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

type RefreshTokenRequest struct {
	Token string `json:"token"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (r ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return ErrInvalidInput("code", "is required")
	}
	return ValidatePassword("password", r.Password)
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type CheckOTPRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"type"`
	Code    string `json:"code"`
}

// UpdateProfileRequest changes only the fields that are set.
type UpdateProfileRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type UpdateLanguageRequest struct {
	Locale string `json:"locale"`
}

// AuthResponse is returned by every login-like operation.
type AuthResponse struct {
	AccountDTO
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// ValidatePassword enforces the length bounds for a new password.
func ValidatePassword(field, pw string) error {
	if utf8.RuneCountInString(pw) < MinPasswordLength {
		return ErrInvalidInput(field, "must be at least 6 characters")
	}
	if len(pw) > MaxPasswordBytes {
		return ErrInvalidInput(field, "must be at most 72 bytes")
	}
	return nil
}
