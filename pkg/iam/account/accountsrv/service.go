package accountsrv

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/federated"
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/Abraxas-365/passport/pkg/ptrx"
	"github.com/google/uuid"
)

// OTPEngine is the challenge store used by the password and e-mail flows.
type OTPEngine interface {
	Generate(ctx context.Context, scope otp.Scope, purpose otp.Purpose) (*otp.GenerateResult, error)
	Check(ctx context.Context, scope otp.Scope, purpose otp.Purpose, code string) (bool, error)
	Verify(ctx context.Context, scope otp.Scope, purpose otp.Purpose, code string) (bool, error)
}

// FederatedResolver turns a provider credential into an account.
type FederatedResolver interface {
	Resolve(ctx context.Context, kind federated.Kind, credential string) (*account.Account, auth.TokenPair, error)
}

// LanguageLookup resolves a locale to an active language.
type LanguageLookup interface {
	GetByLocale(ctx context.Context, locale string) (*language.Language, error)
}

// ImageStore stores uploaded avatars and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, owner, filename string, r io.Reader) (string, error)
}

type AccountService struct {
	accounts  account.Repository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenManager
	otps      OTPEngine
	federated FederatedResolver
	languages LanguageLookup
	mailer    notifx.Dispatcher
	blocklist *account.DomainBlocklist
	audit     auth.AuditService
	images    ImageStore
}

func NewAccountService(
	accounts account.Repository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenManager,
	otps OTPEngine,
	federated FederatedResolver,
	languages LanguageLookup,
	mailer notifx.Dispatcher,
	blocklist *account.DomainBlocklist,
	audit auth.AuditService,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		otps:      otps,
		federated: federated,
		languages: languages,
		mailer:    mailer,
		blocklist: blocklist,
		audit:     audit,
	}
}

// WithImageStore enables avatar uploads.
func (s *AccountService) WithImageStore(images ImageStore) *AccountService {
	s.images = images
	return s
}

// ============================================================================
// Registration & login
// ============================================================================

func (s *AccountService) Register(ctx context.Context, req account.RegisterRequest) (*account.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := account.NormalizeEmail(req.Email)
	if s.blocklist.Blocks(email) {
		return nil, account.ErrEmailInvalid()
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, account.ErrEmailExists()
	} else if !account.IsNotFound(err) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = account.NameFromEmail(email)
	}

	meta := kernel.RequestMetaFrom(ctx)
	now := time.Now().UTC()
	acc := &account.Account{
		ID:           kernel.NewAccountID(uuid.NewString()),
		Email:        email,
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		LoginMethod:  account.LoginDefault,
		Language:     account.DefaultLanguage(meta.Country),
		Country:      meta.Country,
		IP:           meta.ClientIP,
		Status:       account.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	logx.WithContext(ctx).WithField("account_id", acc.ID.String()).Info("account registered")
	s.audit.LogAccountCreated(ctx, acc.ID, string(acc.LoginMethod))

	return s.authResponse(acc)
}

func (s *AccountService) Login(ctx context.Context, req account.LoginRequest) (*account.AuthResponse, error) {
	email := account.NormalizeEmail(req.Email)

	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if account.IsNotFound(err) {
			s.audit.LogLoginAttempt(ctx, email, string(account.LoginDefault), false)
			return nil, account.ErrInvalidCredentials()
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, acc.PasswordHash) {
		s.audit.LogLoginAttempt(ctx, email, string(account.LoginDefault), false)
		return nil, account.ErrWrongPassword()
	}

	s.audit.LogLoginAttempt(ctx, email, string(account.LoginDefault), true)
	return s.authResponse(acc)
}

func (s *AccountService) LoginGoogle(ctx context.Context, accessToken string) (*account.AuthResponse, error) {
	return s.loginFederated(ctx, federated.KindGoogle, accessToken)
}

func (s *AccountService) LoginGoogleAssertion(ctx context.Context, assertion string) (*account.AuthResponse, error) {
	return s.loginFederated(ctx, federated.KindGoogleAssertion, assertion)
}

func (s *AccountService) LoginFacebook(ctx context.Context, accessToken string) (*account.AuthResponse, error) {
	return s.loginFederated(ctx, federated.KindFacebook, accessToken)
}

func (s *AccountService) loginFederated(ctx context.Context, kind federated.Kind, credential string) (*account.AuthResponse, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, account.ErrInvalidInput("accessToken", "is required")
	}

	acc, pair, err := s.federated.Resolve(ctx, kind, credential)
	if err != nil {
		return nil, err
	}
	return &account.AuthResponse{
		AccountDTO:   acc.ToDTO(),
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// RefreshToken issues a new pair from a valid refresh token. The subject is
// taken from the token claims as-is.
func (s *AccountService) RefreshToken(ctx context.Context, token string) (*auth.TokenPair, error) {
	claims := s.tokens.Verify(token, auth.Refresh)
	if claims == nil {
		return nil, account.ErrTokenInvalid()
	}

	pair, err := s.tokens.IssuePair(claims.AsSubject())
	if err != nil {
		return nil, err
	}

	s.audit.LogTokenRefresh(ctx, kernel.AccountID(claims.ID))
	return &pair, nil
}

func (s *AccountService) authResponse(acc *account.Account) (*account.AuthResponse, error) {
	pair, err := s.tokens.IssuePair(auth.Subject{ID: acc.ID, Email: acc.Email})
	if err != nil {
		return nil, err
	}
	return &account.AuthResponse{
		AccountDTO:   acc.ToDTO(),
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// ============================================================================
// Lookups
// ============================================================================

// Profile returns the account of the authenticated caller.
func (s *AccountService) Profile(ctx context.Context) (*account.Account, error) {
	caller := kernel.CallerFrom(ctx)
	if caller == nil {
		return nil, iam.ErrUnauthorized()
	}
	return s.GetOne(ctx, caller.AccountID)
}

// GetOne returns the account with id. A missing account is reported as
// unauthorized.
func (s *AccountService) GetOne(ctx context.Context, id kernel.AccountID) (*account.Account, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if account.IsNotFound(err) {
			return nil, iam.ErrUnauthorized()
		}
		return nil, err
	}
	return acc, nil
}

func (s *AccountService) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.accounts.FindByEmail(ctx, account.NormalizeEmail(email))
}

func (s *AccountService) List(ctx context.Context, opts kernel.PaginationOptions) (*kernel.Paginated[account.AccountDTO], error) {
	page, err := s.accounts.List(ctx, opts.Normalize())
	if err != nil {
		return nil, err
	}

	dtos := make([]account.AccountDTO, 0, len(page.Items))
	for i := range page.Items {
		dtos = append(dtos, page.Items[i].ToDTO())
	}

	out := kernel.NewPaginated(dtos, page.Page.Number, page.Page.Size, page.Page.Total)
	return &out, nil
}

// LookupCaller implements auth.CallerLookup for role-less tokens.
func (s *AccountService) LookupCaller(ctx context.Context, id kernel.AccountID) (*kernel.Caller, error) {
	acc, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if account.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !acc.IsActive() {
		return nil, nil
	}
	return acc.Caller(), nil
}

// ============================================================================
// Password flows
// ============================================================================

// ForgotPassword creates a reset challenge for email and mails the code when
// the challenge is new. A live challenge is not re-sent.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (*account.Account, error) {
	email = account.NormalizeEmail(email)
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	res, err := s.otps.Generate(ctx, otp.EmailScope(email), otp.PurposeForgotPassword)
	if err != nil {
		return nil, err
	}

	if res.IsNew() {
		s.mailer.Dispatch(ctx, notifx.TemplatedMail{
			To:       acc.Email,
			Language: acc.Language,
			Keyword:  notifx.KeywordForgotPassword,
			Values: map[string]string{
				notifx.KeyCodeOTP: res.Challenge.Code,
				notifx.KeyName:    acc.Name,
				notifx.KeyEmail:   acc.Email,
			},
		})
	}
	return acc, nil
}

func (s *AccountService) ResetPassword(ctx context.Context, req account.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	email := account.NormalizeEmail(req.Email)
	acc, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	ok, err := s.otps.Verify(ctx, otp.EmailScope(email), otp.PurposeForgotPassword, strings.TrimSpace(req.Code))
	s.audit.LogOTPVerification(ctx, email, string(otp.PurposeForgotPassword), err == nil && ok)
	if err != nil {
		return err
	}
	if !ok {
		return account.ErrCodeNotVerified()
	}

	return s.setPassword(ctx, acc, req.Password)
}

func (s *AccountService) ChangePassword(ctx context.Context, req account.ChangePasswordRequest) error {
	oldPassword := strings.TrimSpace(req.OldPassword)
	newPassword := strings.TrimSpace(req.NewPassword)

	if oldPassword == newPassword {
		return account.ErrNewPasswordSameAsOld()
	}
	if err := account.ValidatePassword("newPassword", newPassword); err != nil {
		return err
	}

	acc, err := s.Profile(ctx)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, acc.PasswordHash) {
		return account.ErrOldPasswordIncorrect()
	}

	return s.setPassword(ctx, acc, newPassword)
}

func (s *AccountService) setPassword(ctx context.Context, acc *account.Account, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	acc.PasswordHash = hash
	acc.Touch()

	if err := s.accounts.Update(ctx, acc); err != nil {
		return err
	}
	logx.WithContext(ctx).WithField("account_id", acc.ID.String()).Info("account password updated")
	return nil
}

// ============================================================================
// Profile
// ============================================================================

func (s *AccountService) UpdateProfile(ctx context.Context, req account.UpdateProfileRequest) (*account.Account, error) {
	acc, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := ptrx.TrimmedValue(req.Name)
		if name == "" {
			return nil, account.ErrInvalidInput("name", "must not be empty")
		}
		acc.Name = name
	}
	if req.Phone != nil {
		acc.Phone = ptrx.TrimmedValue(req.Phone)
	}
	if req.Avatar != nil {
		avatar := ptrx.TrimmedValue(req.Avatar)
		if !isAbsoluteHTTPURL(avatar) {
			return nil, account.ErrInvalidAvatar()
		}
		acc.Avatar = avatar
	}

	acc.Touch()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *AccountService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (*account.Account, error) {
	if s.images == nil {
		return nil, errx.New("avatar storage is not configured", errx.TypeUnavailable)
	}

	acc, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.images.Save(ctx, acc.ID.String(), filename, r)
	if err != nil {
		return nil, err
	}

	acc.Avatar = avatarURL
	acc.Touch()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *AccountService) UpdateLanguage(ctx context.Context, locale string) (*account.Account, error) {
	acc, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}

	lang, err := s.languages.GetByLocale(ctx, strings.TrimSpace(locale))
	if err != nil {
		return nil, err
	}

	acc.Language = lang.Locale
	acc.Touch()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ============================================================================
// E-mail verification
// ============================================================================

// SendMailOTP mails a verification code to the caller's own address.
func (s *AccountService) SendMailOTP(ctx context.Context, email string) error {
	acc, err := s.ownedAccount(ctx, email)
	if err != nil {
		return err
	}
	if acc.EmailVerified {
		return account.ErrEmailVerified()
	}

	res, err := s.otps.Generate(ctx, otp.EmailScope(acc.Email), otp.PurposeVerificationEmail)
	if err != nil {
		return err
	}

	if res.IsNew() {
		s.mailer.Dispatch(ctx, notifx.TemplatedMail{
			To:       acc.Email,
			Language: acc.Language,
			Keyword:  notifx.KeywordEmailVerify,
			Values: map[string]string{
				notifx.KeyCodeOTP: res.Challenge.Code,
				notifx.KeyName:    acc.Name,
				notifx.KeyEmail:   acc.Email,
			},
		})
	}
	return nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, req account.VerifyEmailRequest) (*account.Account, error) {
	acc, err := s.ownedAccount(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if acc.EmailVerified {
		return nil, account.ErrEmailVerified()
	}

	ok, err := s.otps.Verify(ctx, otp.EmailScope(acc.Email), otp.PurposeVerificationEmail, strings.TrimSpace(req.Code))
	s.audit.LogOTPVerification(ctx, acc.Email, string(otp.PurposeVerificationEmail), err == nil && ok)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, account.ErrCodeNotVerified()
	}

	acc.EmailVerified = true
	acc.Touch()
	if err := s.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// CheckOTP reports whether code matches the live challenge without consuming it.
func (s *AccountService) CheckOTP(ctx context.Context, req account.CheckOTPRequest) (bool, error) {
	purpose := otp.Purpose(req.Purpose)
	if purpose != otp.PurposeForgotPassword && purpose != otp.PurposeVerificationEmail {
		return false, account.ErrInvalidInput("type", "unknown otp type")
	}
	return s.otps.Check(ctx, otp.EmailScope(account.NormalizeEmail(req.Email)), purpose, strings.TrimSpace(req.Code))
}

// ownedAccount loads the caller's account and checks that email is its address.
func (s *AccountService) ownedAccount(ctx context.Context, email string) (*account.Account, error) {
	acc, err := s.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if account.NormalizeEmail(email) != acc.Email {
		return nil, account.ErrEmailMismatch()
	}
	return acc, nil
}
