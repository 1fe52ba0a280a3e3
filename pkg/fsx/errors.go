package fsx

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeWriteFailed = ErrRegistry.Register("WRITE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to store file")
	CodeReadFailed  = ErrRegistry.Register("READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read file")
	CodeUnsupported = ErrRegistry.Register("UNSUPPORTED_TYPE", errx.TypeValidation, http.StatusBadRequest, "Unsupported file type")
	CodeTooLarge    = ErrRegistry.Register("TOO_LARGE", errx.TypeValidation, http.StatusRequestEntityTooLarge, "File too large")
)

func ErrNotFound(path string) *errx.Error {
	return ErrRegistry.New(CodeNotFound).WithDetail("path", path)
}

func ErrWriteFailed(path string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeWriteFailed, cause).WithDetail("path", path)
}

func ErrReadFailed(path string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeReadFailed, cause).WithDetail("path", path)
}
