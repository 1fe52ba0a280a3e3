package federated

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
)

// Kind is the login kind declared by the client. It selects the verifier.
type Kind string

const (
	KindGoogle          Kind = "google"
	KindGoogleAssertion Kind = "google_assertion"
	KindFacebook        Kind = "facebook"
)

// Method is the login method recorded on the account for k.
func (k Kind) Method() account.LoginMethod {
	switch k {
	case KindGoogle, KindGoogleAssertion:
		return account.LoginGoogle
	case KindFacebook:
		return account.LoginFacebook
	}
	return account.LoginDefault
}

// Identity is what a provider vouches for.
type Identity struct {
	ProviderUID   string
	Email         string
	Name          string
	EmailVerified bool
	Avatar        string
}

// Verifier turns a client-supplied credential into a verified identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("FEDERATED")

var (
	CodeLoginFailed     = ErrRegistry.Register("LOGIN_FAILED", errx.TypeExternal, http.StatusBadGateway, "federated login failed")
	CodeUnsupportedKind = ErrRegistry.Register("UNSUPPORTED_KIND", errx.TypeValidation, http.StatusBadRequest, "unsupported login kind")
)

func ErrLoginFailed(kind Kind) *errx.Error {
	return ErrRegistry.New(CodeLoginFailed).WithDetail("provider", string(kind))
}

func ErrUnsupportedKind(kind Kind) *errx.Error {
	return ErrRegistry.New(CodeUnsupportedKind).WithDetail("kind", string(kind))
}
