package accountapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountapi"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountinfra"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/passport/pkg/iam/federated"
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/Abraxas-365/passport/pkg/iam/language/languageinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/passport/pkg/iam/signing"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discard struct{}

func (discard) Dispatch(context.Context, notifx.TemplatedMail) {}

var signCfg = config.SigningConfig{KeySecret: "sign-secret", KeyVersion: "v", Window: 30 * time.Second}

func newApp(t *testing.T) *fiber.App {
	t.Helper()

	repo := accountinfra.NewMemoryAccountRepository()
	hasher := auth.NewBcryptHasher(4)
	tokens := auth.NewTokenManager(config.AuthConfig{
		AccessSecret:   "access",
		RefreshSecret:  "refresh",
		Issuer:         "passport-test",
		UserAccessTTL:  time.Hour,
		UserRefreshTTL: 2 * time.Hour,
		RoleAccessTTL:  time.Hour,
		RoleRefreshTTL: 2 * time.Hour,
	})
	audit := authinfra.NewLogxAuditService()
	blocklist, err := account.NewDomainBlocklist(config.AccountConfig{})
	require.NoError(t, err)

	svc := accountsrv.NewAccountService(
		repo,
		hasher,
		tokens,
		otpsrv.NewEngine(otpinfra.NewMemoryRepository(), config.OTPConfig{CodeLength: 6}),
		federated.NewResolver(map[federated.Kind]federated.Verifier{}, repo, hasher, tokens, audit),
		language.NewService(languageinfra.NewMemoryLanguageRepository()),
		discard{},
		blocklist,
		audit,
	)

	gate := auth.NewGate(tokens, svc, audit)
	guard := signing.NewGuard(signing.NewSigner(signCfg), signCfg, nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			r := errx.ResponseOf(err, "")
			return c.Status(r.Status).JSON(r)
		},
	})
	app.Use(gate.CaptureMeta())
	accountapi.NewHandlers(svc).RegisterRoutes(app, gate, guard)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestRegisterLoginProfile(t *testing.T) {
	app := newApp(t)

	status, body := do(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": "a@b.com", "password": "secret1", "name": "Alice Smith",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, false, body["emailVerify"])
	assert.Equal(t, "default", body["typeLogin"])
	assert.NotEmpty(t, body["refreshToken"])
	assert.NotContains(t, body, "password_hash")

	status, body = do(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ACCOUNT_EMAIL_EXISTS", body["code"])

	status, body = do(t, app, http.MethodPost, "/api/user/login", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = do(t, app, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["email"])

	status, _ = do(t, app, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestListRequiresRole(t *testing.T) {
	app := newApp(t)

	_, body := do(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	token, _ := body["token"].(string)

	status, body := do(t, app, http.MethodGet, "/api/user/list", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "IAM_PERMISSION_DENIED", body["code"])
}

func TestInternalLookupIsSigned(t *testing.T) {
	app := newApp(t)
	do(t, app, http.MethodPost, "/api/user/register", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})

	signed, err := signing.NewSigner(signCfg).Sign(signing.Params{"email": "a@b.com"})
	require.NoError(t, err)

	status, body := do(t, app, http.MethodPost, "/internal/accounts/by-email", "", signed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["email"])

	status, _ = do(t, app, http.MethodPost, "/internal/accounts/by-email", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestMalformedBody(t *testing.T) {
	app := newApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
