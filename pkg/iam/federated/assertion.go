package federated

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/golang-jwt/jwt/v5"
)

// flexBool accepts true/false as JSON booleans or strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = flexBool(t)
	case string:
		*b = flexBool(strings.EqualFold(t, "true"))
	}
	return nil
}

type assertionClaims struct {
	Email         string   `json:"email"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
	EmailVerified flexBool `json:"email_verified"`
	jwt.RegisteredClaims
}

// AssertionDecoder reads an identity assertion that the provider issued
// directly to the client (Google one-tap / popup). The signature is not
// checked; the claims are validated for shape only.
type AssertionDecoder struct {
	kind   Kind
	parser *jwt.Parser
}

func NewAssertionDecoder() *AssertionDecoder {
	return &AssertionDecoder{kind: KindGoogleAssertion, parser: jwt.NewParser()}
}

func (d *AssertionDecoder) Verify(_ context.Context, credential string) (*Identity, error) {
	var claims assertionClaims
	if _, _, err := d.parser.ParseUnverified(credential, &claims); err != nil {
		return nil, ErrLoginFailed(d.kind).WithCause(err)
	}

	if claims.Subject == "" {
		return nil, ErrLoginFailed(d.kind).WithDetail("reason", "assertion has no subject")
	}
	email := account.NormalizeEmail(claims.Email)
	if !account.ValidEmail(email) {
		return nil, ErrLoginFailed(d.kind).WithDetail("reason", "assertion has no valid email")
	}

	return &Identity{
		ProviderUID:   claims.Subject,
		Email:         email,
		Name:          claims.Name,
		EmailVerified: bool(claims.EmailVerified),
		Avatar:        claims.Picture,
	}, nil
}
