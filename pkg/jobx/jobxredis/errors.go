package jobxredis

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("JOBX_REDIS")

var (
	CodeCommand  = ErrRegistry.Register("COMMAND", errx.TypeExternal, http.StatusBadGateway, "Redis command failed")
	CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found in Redis")
	CodeCodec    = ErrRegistry.Register("CODEC", errx.TypeInternal, http.StatusInternalServerError, "Failed to encode or decode job data")
)

func errCommand(op string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeCommand, cause).WithDetail("op", op)
}

func errCodec(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeCodec, cause)
}
