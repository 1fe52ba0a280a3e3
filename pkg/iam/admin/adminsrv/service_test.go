package adminsrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
	"github.com/Abraxas-365/passport/pkg/iam/admin/admininfra"
	"github.com/Abraxas-365/passport/pkg/iam/admin/adminsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*adminsrv.AdminService, *auth.TokenManager) {
	tokens := auth.NewTokenManager(config.AuthConfig{
		AccessSecret:   "access",
		RefreshSecret:  "refresh",
		Issuer:         "passport-test",
		UserAccessTTL:  30 * 24 * time.Hour,
		UserRefreshTTL: 90 * 24 * time.Hour,
		RoleAccessTTL:  7 * 24 * time.Hour,
		RoleRefreshTTL: 30 * 24 * time.Hour,
	})
	svc := adminsrv.NewAdminService(
		admininfra.NewMemoryAdminRepository(),
		auth.NewBcryptHasher(4),
		tokens,
		authinfra.NewLogxAuditService(),
	)
	return svc, tokens
}

func TestCreateAndLogin(t *testing.T) {
	svc, tokens := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, admin.CreateRequest{Name: "Ops", Email: "Ops@Example.com", Password: "secret1", Role: "marketing"})
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", a.Email)
	assert.Equal(t, kernel.RoleMarketing, a.Role)

	_, err = svc.Create(ctx, admin.CreateRequest{Name: "Ops", Email: "ops@example.com", Password: "secret1", Role: "admin"})
	assert.True(t, errx.IsCode(err, account.CodeEmailExists))

	res, err := svc.Login(ctx, account.LoginRequest{Email: "ops@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims := tokens.Verify(res.Token, auth.Access)
	require.NotNil(t, claims)
	assert.Equal(t, kernel.RoleMarketing, claims.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), admin.CreateRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: "root"})
	assert.True(t, errx.IsCode(err, admin.CodeInvalidRole))

	_, err = svc.Create(context.Background(), admin.CreateRequest{Name: "X", Email: "x@example.com", Password: "secret1", Role: ""})
	assert.True(t, errx.IsCode(err, admin.CodeInvalidRole))

	_, err = svc.Create(context.Background(), admin.CreateRequest{Name: "X", Email: "x@example.com", Password: "123", Role: "admin"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))
}

func TestLogin_Errors(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, err := svc.Create(ctx, admin.CreateRequest{Name: "A", Email: "a@example.com", Password: "secret1", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, account.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidCredentials))

	_, err = svc.Login(ctx, account.LoginRequest{Email: "a@example.com", Password: "wrong11"})
	assert.True(t, errx.IsCode(err, account.CodeWrongPassword))
}

func TestBootstrap_Idempotent(t *testing.T) {
	svc, _ := newService()
	cfg := config.AdminConfig{BootstrapEmail: "root@example.com", BootstrapPassword: "secret1", BootstrapName: "Root"}

	require.NoError(t, svc.Bootstrap(context.Background(), cfg))
	require.NoError(t, svc.Bootstrap(context.Background(), cfg))
	require.NoError(t, svc.Bootstrap(context.Background(), config.AdminConfig{}))

	_, err := svc.Login(context.Background(), account.LoginRequest{Email: "root@example.com", Password: "secret1"})
	assert.NoError(t, err)
}
