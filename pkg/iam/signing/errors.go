package signing

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SIGNING")

var (
	CodeServerIsBusy    = ErrRegistry.Register("SERVER_IS_BUSY", errx.TypeUnavailable, http.StatusServiceUnavailable, "Server is busy")
	CodeBadRequest      = ErrRegistry.Register("BAD_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Bad request")
	CodeReplayedRequest = ErrRegistry.Register("REPLAYED_REQUEST", errx.TypeConflict, http.StatusConflict, "Request was already processed")
	CodeNonceStore      = ErrRegistry.Register("NONCE_STORE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Nonce store failed")
)

// ErrServerIsBusy is returned for requests outside the freshness window.
func ErrServerIsBusy() *errx.Error { return ErrRegistry.New(CodeServerIsBusy) }

// ErrBadRequest is returned for a missing or mismatched signature.
func ErrBadRequest() *errx.Error { return ErrRegistry.New(CodeBadRequest) }

func ErrReplayedRequest() *errx.Error { return ErrRegistry.New(CodeReplayedRequest) }

func ErrNonceStore(cause error) *errx.Error { return ErrRegistry.NewWithCause(CodeNonceStore, cause) }
