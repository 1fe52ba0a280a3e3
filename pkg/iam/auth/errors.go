package auth

import (
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate token")
	CodeHashFailed            = ErrRegistry.Register("HASH_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to hash password")
)

func ErrTokenGenerationFailed() *errx.Error { return ErrRegistry.New(CodeTokenGenerationFailed) }
func ErrHashFailed() *errx.Error            { return ErrRegistry.New(CodeHashFailed) }
