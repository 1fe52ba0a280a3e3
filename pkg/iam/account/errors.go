package account

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("ACCOUNT")

var (
	CodeEmailInvalid         = ErrRegistry.Register("EMAIL_INVALID", errx.TypeConflict, http.StatusConflict, "email-is-invalid")
	CodeEmailExists          = ErrRegistry.Register("EMAIL_EXISTS", errx.TypeConflict, http.StatusConflict, "email-is-exist")
	CodeInvalidCredentials   = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeBusiness, http.StatusUnprocessableEntity, "email-or-password-is-invalid")
	CodeWrongPassword        = ErrRegistry.Register("WRONG_PASSWORD", errx.TypeBusiness, http.StatusUnprocessableEntity, "wrong-password")
	CodeTokenInvalid         = ErrRegistry.Register("TOKEN_INVALID", errx.TypeAuthorization, http.StatusUnauthorized, "token-invalid")
	CodeUserNotFound         = ErrRegistry.Register("USER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "user-not-found")
	CodeCodeNotVerified      = ErrRegistry.Register("CODE_NOT_VERIFIED", errx.TypeBusiness, http.StatusUnprocessableEntity, "code-not-verify")
	CodeNewPasswordSameAsOld = ErrRegistry.Register("NEW_PASSWORD_SAME_AS_OLD", errx.TypeBusiness, http.StatusUnprocessableEntity, "new-password-must-not-old-password")
	CodeOldPasswordIncorrect = ErrRegistry.Register("OLD_PASSWORD_INCORRECT", errx.TypeBusiness, http.StatusUnprocessableEntity, "old-password-is-incorrect")
	CodeInvalidAvatar        = ErrRegistry.Register("INVALID_AVATAR", errx.TypeValidation, http.StatusBadRequest, "avatar must be an absolute http(s) URL")
	CodeEmailMismatch        = ErrRegistry.Register("EMAIL_MISMATCH", errx.TypeAuthorization, http.StatusUnauthorized, "email-invalid")
	CodeEmailVerified        = ErrRegistry.Register("EMAIL_VERIFIED", errx.TypeConflict, http.StatusConflict, "email-verified")
	CodeInvalidInput         = ErrRegistry.Register("INVALID_INPUT", errx.TypeValidation, http.StatusBadRequest, "invalid input")
)

func ErrEmailInvalid() *errx.Error {
	return ErrRegistry.New(CodeEmailInvalid).WithDetail("field", "email")
}

func ErrEmailExists() *errx.Error {
	return ErrRegistry.New(CodeEmailExists).WithDetail("field", "email")
}

func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrWrongPassword() *errx.Error      { return ErrRegistry.New(CodeWrongPassword) }
func ErrTokenInvalid() *errx.Error       { return ErrRegistry.New(CodeTokenInvalid) }
func ErrUserNotFound() *errx.Error       { return ErrRegistry.New(CodeUserNotFound) }
func ErrCodeNotVerified() *errx.Error    { return ErrRegistry.New(CodeCodeNotVerified) }

func ErrNewPasswordSameAsOld() *errx.Error { return ErrRegistry.New(CodeNewPasswordSameAsOld) }
func ErrOldPasswordIncorrect() *errx.Error { return ErrRegistry.New(CodeOldPasswordIncorrect) }

func ErrInvalidAvatar() *errx.Error { return ErrRegistry.New(CodeInvalidAvatar) }
func ErrEmailMismatch() *errx.Error { return ErrRegistry.New(CodeEmailMismatch) }
func ErrEmailVerified() *errx.Error { return ErrRegistry.New(CodeEmailVerified) }

func ErrInvalidInput(field, reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidInput).WithDetail("field", field).WithDetail("reason", reason)
}

// IsNotFound reports whether err is ErrUserNotFound.
func IsNotFound(err error) bool {
	return errx.IsCode(err, CodeUserNotFound)
}

// IsEmailExists reports whether err is ErrEmailExists.
func IsEmailExists(err error) bool {
	return errx.IsCode(err, CodeEmailExists)
}
