package jobx

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("JOBX")

var (
	CodeEnqueueFailed  = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to enqueue job")
	CodeInvalidJob     = ErrRegistry.Register("INVALID_JOB", errx.TypeValidation, http.StatusBadRequest, "Invalid job definition")
	CodeAlreadyRunning = ErrRegistry.Register("ALREADY_RUNNING", errx.TypeConflict, http.StatusConflict, "Worker is already running")
)

func ErrInvalidJob(reason string) *errx.Error {
	return ErrRegistry.New(CodeInvalidJob).WithDetail("reason", reason)
}

func ErrEnqueueFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeEnqueueFailed, cause)
}
