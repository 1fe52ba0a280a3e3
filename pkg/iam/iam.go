package iam

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized     = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "unauthorized")
	CodePermissionDenied = ErrRegistry.Register("PERMISSION_DENIED", errx.TypeAuthorization, http.StatusUnauthorized, "permission-denied")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrPermissionDenied() *errx.Error {
	return ErrRegistry.New(CodePermissionDenied)
}
