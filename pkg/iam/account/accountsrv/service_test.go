package accountsrv_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/fsx"
	"github.com/Abraxas-365/passport/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/passport/pkg/iam"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountinfra"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/passport/pkg/iam/federated"
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/Abraxas-365/passport/pkg/iam/language/languageinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/Abraxas-365/passport/pkg/ptrx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outbox struct {
	mu    sync.Mutex
	mails []notifx.TemplatedMail
}

func (o *outbox) Dispatch(_ context.Context, mail notifx.TemplatedMail) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mails = append(o.mails, mail)
}

func (o *outbox) last(t *testing.T) notifx.TemplatedMail {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.mails)
	return o.mails[len(o.mails)-1]
}

type stubResolver struct {
	calls []federated.Kind
	acc   *account.Account
}

func (r *stubResolver) Resolve(_ context.Context, kind federated.Kind, _ string) (*account.Account, auth.TokenPair, error) {
	r.calls = append(r.calls, kind)
	if r.acc == nil {
		return nil, auth.TokenPair{}, federated.ErrLoginFailed(kind)
	}
	return r.acc, auth.TokenPair{Token: "t", RefreshToken: "r"}, nil
}

type fixture struct {
	svc      *accountsrv.AccountService
	repo     *accountinfra.MemoryAccountRepository
	tokens   *auth.TokenManager
	mail     *outbox
	resolver *stubResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens := auth.NewTokenManager(config.AuthConfig{
		AccessSecret:   "access",
		RefreshSecret:  "refresh",
		Issuer:         "passport-test",
		UserAccessTTL:  time.Hour,
		UserRefreshTTL: 2 * time.Hour,
		RoleAccessTTL:  time.Hour,
		RoleRefreshTTL: 2 * time.Hour,
	})
	blocklist, err := account.NewDomainBlocklist(config.AccountConfig{BlockedDomains: []string{"mailinator.com"}})
	require.NoError(t, err)

	local, err := fsxlocal.NewLocalFileSystem(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	f := &fixture{
		repo:     accountinfra.NewMemoryAccountRepository(),
		tokens:   tokens,
		mail:     &outbox{},
		resolver: &stubResolver{},
	}
	f.svc = accountsrv.NewAccountService(
		f.repo,
		auth.NewBcryptHasher(4),
		tokens,
		otpsrv.NewEngine(otpinfra.NewMemoryRepository(), config.OTPConfig{CodeLength: 6, TTL: 15 * time.Minute}),
		f.resolver,
		language.NewService(languageinfra.NewMemoryLanguageRepository()),
		f.mail,
		blocklist,
		authinfra.NewLogxAuditService(),
	).WithImageStore(fsx.NewImageStore(local, "avatars"))
	return f
}

func (f *fixture) register(t *testing.T, email, password string) *account.AuthResponse {
	t.Helper()
	res, err := f.svc.Register(context.Background(), account.RegisterRequest{Email: email, Password: password, Name: "Alice Smith"})
	require.NoError(t, err)
	return res
}

func (f *fixture) as(t *testing.T, res *account.AuthResponse) context.Context {
	t.Helper()
	caller, err := f.svc.LookupCaller(context.Background(), res.ID)
	require.NoError(t, err)
	require.NotNil(t, caller)
	return kernel.WithCaller(context.Background(), caller)
}

func TestRegister_ThenDuplicate(t *testing.T) {
	f := newFixture(t)

	res := f.register(t, "a@b.com", "secret1")
	assert.False(t, res.EmailVerified)
	assert.Equal(t, account.LoginDefault, res.LoginMethod)
	assert.Equal(t, "Alice Smith", res.Name)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)

	claims := f.tokens.Verify(res.Token, auth.Access)
	require.NotNil(t, claims)
	assert.Equal(t, "a@b.com", claims.Email)

	_, err := f.svc.Register(context.Background(), account.RegisterRequest{Email: "A@B.com ", Password: "secret1"})
	assert.True(t, errx.IsCode(err, account.CodeEmailExists))
	assert.Equal(t, 1, f.repo.Count())
}

func TestRegister_LanguageFromCountry(t *testing.T) {
	f := newFixture(t)
	ctx := kernel.WithRequestMeta(context.Background(), kernel.RequestMeta{ClientIP: "1.2.3.4", Country: "VN"})

	res, err := f.svc.Register(ctx, account.RegisterRequest{Email: "vn@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "vi", res.Language)
	assert.Equal(t, "1.2.3.4", res.IP)
	assert.Equal(t, "vn", res.Name)
}

func TestRegister_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), account.RegisterRequest{Email: "x@mailinator.com", Password: "secret1"})
	assert.True(t, errx.IsCode(err, account.CodeEmailInvalid))

	_, err = f.svc.Register(context.Background(), account.RegisterRequest{Email: "x@b.com", Password: "short"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))

	_, err = f.svc.Register(context.Background(), account.RegisterRequest{Email: "not-an-email", Password: "secret1"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))
}

func TestPasswordLengthLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tooLong := strings.Repeat("a", account.MaxPasswordBytes+1)
	_, err := f.svc.Register(ctx, account.RegisterRequest{Email: "long@b.com", Password: tooLong})
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))
	assert.Equal(t, 400, errx.StatusOf(err))

	longest := strings.Repeat("a", account.MaxPasswordBytes)
	res := f.register(t, "max@b.com", longest)
	_, err = f.svc.Login(ctx, account.LoginRequest{Email: "max@b.com", Password: longest})
	require.NoError(t, err)

	authed := f.as(t, res)
	err = f.svc.ChangePassword(authed, account.ChangePasswordRequest{OldPassword: longest, NewPassword: tooLong})
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))

	err = f.svc.ResetPassword(ctx, account.ResetPasswordRequest{Email: "max@b.com", Password: tooLong, Code: "123456"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "secret1")

	res, err := f.svc.Login(context.Background(), account.LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = f.svc.Login(context.Background(), account.LoginRequest{Email: "a@b.com", Password: "nope123"})
	assert.True(t, errx.IsCode(err, account.CodeWrongPassword))

	_, err = f.svc.Login(context.Background(), account.LoginRequest{Email: "ghost@b.com", Password: "secret1"})
	assert.True(t, errx.IsCode(err, account.CodeInvalidCredentials))
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	res := f.register(t, "a@b.com", "secret1")

	pair, err := f.svc.RefreshToken(context.Background(), res.RefreshToken)
	require.NoError(t, err)
	claims := f.tokens.Verify(pair.Token, auth.Access)
	require.NotNil(t, claims)
	assert.Equal(t, res.ID.String(), claims.ID)

	_, err = f.svc.RefreshToken(context.Background(), res.Token)
	assert.True(t, errx.IsCode(err, account.CodeTokenInvalid))
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "secret1")
	ctx := context.Background()

	_, err := f.svc.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	mail := f.mail.last(t)
	assert.Equal(t, notifx.KeywordForgotPassword, mail.Keyword)
	assert.Equal(t, "a@b.com", mail.To)
	code := mail.Values[notifx.KeyCodeOTP]
	require.Len(t, code, 6)

	// a live challenge is not mailed twice
	_, err = f.svc.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Len(t, f.mail.mails, 1)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = f.svc.ResetPassword(ctx, account.ResetPasswordRequest{Email: "a@b.com", Password: "newpass1", Code: wrong})
	assert.True(t, errx.IsCode(err, account.CodeCodeNotVerified))

	// the failed attempt consumed the challenge; request a new one
	_, err = f.svc.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	code = f.mail.last(t).Values[notifx.KeyCodeOTP]

	ok, err := f.svc.CheckOTP(ctx, account.CheckOTPRequest{Email: "a@b.com", Purpose: "forgot_password", Code: code})
	require.NoError(t, err)
	assert.True(t, ok)

	err = f.svc.ResetPassword(ctx, account.ResetPasswordRequest{Email: "a@b.com", Password: "newpass1", Code: code})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, account.ResetPasswordRequest{Email: "a@b.com", Password: "newpass2", Code: code})
	assert.True(t, errx.IsCode(err, account.CodeCodeNotVerified))

	_, err = f.svc.Login(ctx, account.LoginRequest{Email: "a@b.com", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestForgotPassword_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ForgotPassword(context.Background(), "ghost@b.com")
	assert.True(t, errx.IsCode(err, account.CodeUserNotFound))
	assert.Empty(t, f.mail.mails)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.register(t, "a@b.com", "secret1"))

	err := f.svc.ChangePassword(ctx, account.ChangePasswordRequest{OldPassword: "secret1", NewPassword: " secret1 "})
	assert.True(t, errx.IsCode(err, account.CodeNewPasswordSameAsOld))

	err = f.svc.ChangePassword(ctx, account.ChangePasswordRequest{OldPassword: "wrong11", NewPassword: "secret2"})
	assert.True(t, errx.IsCode(err, account.CodeOldPasswordIncorrect))

	require.NoError(t, f.svc.ChangePassword(ctx, account.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}))
	_, err = f.svc.Login(context.Background(), account.LoginRequest{Email: "a@b.com", Password: "secret2"})
	assert.NoError(t, err)

	err = f.svc.ChangePassword(context.Background(), account.ChangePasswordRequest{OldPassword: "secret2", NewPassword: "secret3"})
	assert.True(t, errx.IsCode(err, iam.CodeUnauthorized))
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.register(t, "a@b.com", "secret1"))

	err := f.svc.SendMailOTP(ctx, "other@b.com")
	assert.True(t, errx.IsCode(err, account.CodeEmailMismatch))

	require.NoError(t, f.svc.SendMailOTP(ctx, "a@b.com"))
	mail := f.mail.last(t)
	assert.Equal(t, notifx.KeywordEmailVerify, mail.Keyword)

	acc, err := f.svc.VerifyEmail(ctx, account.VerifyEmailRequest{Email: "a@b.com", Code: mail.Values[notifx.KeyCodeOTP]})
	require.NoError(t, err)
	assert.True(t, acc.EmailVerified)

	err = f.svc.SendMailOTP(ctx, "a@b.com")
	assert.True(t, errx.IsCode(err, account.CodeEmailVerified))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.register(t, "a@b.com", "secret1"))

	avatar := "https://cdn.example.com/a.png"
	acc, err := f.svc.UpdateProfile(ctx, account.UpdateProfileRequest{Name: ptrx.String(" Alice "), Avatar: ptrx.Of(avatar)})
	require.NoError(t, err)
	assert.Equal(t, "Alice", acc.Name)
	assert.Equal(t, avatar, acc.Avatar)

	_, err = f.svc.UpdateProfile(ctx, account.UpdateProfileRequest{Avatar: ptrx.String("/relative.png")})
	assert.True(t, errx.IsCode(err, account.CodeInvalidAvatar))
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.register(t, "a@b.com", "secret1"))

	acc, err := f.svc.UploadAvatar(ctx, "me.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(acc.Avatar, "http://localhost/media/avatars/"+acc.ID.String()+"/"))

	_, err = f.svc.UploadAvatar(ctx, "me.exe", strings.NewReader("x"))
	assert.True(t, errx.IsCode(err, fsx.CodeUnsupported))
}

func TestUpdateLanguage(t *testing.T) {
	f := newFixture(t)
	ctx := f.as(t, f.register(t, "a@b.com", "secret1"))

	acc, err := f.svc.UpdateLanguage(ctx, "vi")
	require.NoError(t, err)
	assert.Equal(t, "vi", acc.Language)

	_, err = f.svc.UpdateLanguage(ctx, "xx")
	assert.True(t, errx.IsCode(err, language.CodeNotFound))
}

func TestGetOneAndLookupCaller(t *testing.T) {
	f := newFixture(t)
	res := f.register(t, "a@b.com", "secret1")

	acc, err := f.svc.GetByEmail(context.Background(), "A@b.com")
	require.NoError(t, err)
	assert.Equal(t, res.ID, acc.ID)

	_, err = f.svc.GetOne(context.Background(), "missing")
	assert.True(t, errx.IsCode(err, iam.CodeUnauthorized))

	caller, err := f.svc.LookupCaller(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, caller)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	for _, e := range []string{"a@b.com", "b@b.com", "c@b.com"} {
		f.register(t, e, "secret1")
	}

	page, err := f.svc.List(context.Background(), kernel.PaginationOptions{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)
	assert.Equal(t, 2, page.Page.Pages)
}

func TestFederatedLogin(t *testing.T) {
	f := newFixture(t)
	res := f.register(t, "a@b.com", "secret1")
	acc, err := f.repo.FindByID(context.Background(), res.ID)
	require.NoError(t, err)
	f.resolver.acc = acc

	out, err := f.svc.LoginGoogle(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "t", out.Token)

	_, err = f.svc.LoginFacebook(context.Background(), "token")
	require.NoError(t, err)
	_, err = f.svc.LoginGoogleAssertion(context.Background(), "jwt")
	require.NoError(t, err)
	assert.Equal(t, []federated.Kind{federated.KindGoogle, federated.KindFacebook, federated.KindGoogleAssertion}, f.resolver.calls)

	_, err = f.svc.LoginGoogle(context.Background(), "  ")
	assert.True(t, errx.IsCode(err, account.CodeInvalidInput))
}
