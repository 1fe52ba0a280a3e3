package otp

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeInvalidScope     = ErrRegistry.Register("INVALID_SCOPE", errx.TypeValidation, http.StatusBadRequest, "An e-mail or phone is required")
	CodeGenerationFailed = ErrRegistry.Register("GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate code")
	CodeStoreFailed      = ErrRegistry.Register("STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Challenge store failed")
)

func ErrInvalidScope() *errx.Error { return ErrRegistry.New(CodeInvalidScope) }

func ErrGenerationFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeGenerationFailed, cause)
}

func ErrStoreFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreFailed, cause)
}
