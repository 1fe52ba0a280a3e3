package iamcontainer

import (
	"context"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountapi"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountinfra"
	"github.com/Abraxas-365/passport/pkg/iam/account/accountsrv"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
	"github.com/Abraxas-365/passport/pkg/iam/admin/adminapi"
	"github.com/Abraxas-365/passport/pkg/iam/admin/admininfra"
	"github.com/Abraxas-365/passport/pkg/iam/admin/adminsrv"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/passport/pkg/iam/federated"
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/Abraxas-365/passport/pkg/iam/language/languageapi"
	"github.com/Abraxas-365/passport/pkg/iam/language/languageinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/passport/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/passport/pkg/iam/signing"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies of the IAM module.
// ---------------------------------------------------------------------------

type Deps struct {
	// DB is nil when DB_DRIVER=memory.
	DB *sqlx.DB
	// Redis is nil when REDIS_ENABLED=false.
	Redis *redis.Client
	Cfg   *config.Config

	// Mailer delivers OTP mails; the module does not know how.
	Mailer notifx.Dispatcher
	// Images stores uploaded avatars. Optional.
	Images accountsrv.ImageStore
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// ---------------------------------------------------------------------------

type Container struct {
	Tokens *auth.TokenManager
	Gate   *auth.Gate
	Guard  *signing.Guard

	AccountService  *accountsrv.AccountService
	AdminService    *adminsrv.AdminService
	LanguageService *language.Service

	AccountHandlers  *accountapi.Handlers
	AdminHandlers    *adminapi.Handlers
	LanguageHandlers *languageapi.Handlers

	cfg *config.Config
}

// New builds the IAM graph: repos → services → handlers → middleware.
func New(deps Deps) (*Container, error) {
	logx.Info("🔧 Initializing IAM container...")

	cfg := deps.Cfg
	c := &Container{cfg: cfg}

	// ── Repositories ─────────────────────────────────────────────────────

	var (
		accountRepo  account.Repository
		adminRepo    admin.Repository
		languageRepo language.Repository
	)
	if deps.DB != nil {
		accountRepo = accountinfra.NewPostgresAccountRepository(deps.DB)
		adminRepo = admininfra.NewPostgresAdminRepository(deps.DB)
		languageRepo = languageinfra.NewPostgresLanguageRepository(deps.DB)
	} else {
		accountRepo = accountinfra.NewMemoryAccountRepository()
		adminRepo = admininfra.NewMemoryAdminRepository()
		languageRepo = languageinfra.NewMemoryLanguageRepository()
		logx.Warn("  ⚠️  Using in-memory repositories (data is lost on restart)")
	}

	otpRepo := newOTPRepository(deps, cfg.OTP)

	// ── Core services ────────────────────────────────────────────────────

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	c.Tokens = auth.NewTokenManager(cfg.Auth)
	audit := authinfra.NewLogxAuditService()

	blocklist, err := account.NewDomainBlocklist(cfg.Account)
	if err != nil {
		return nil, err
	}
	if n := blocklist.Len(); n > 0 {
		logx.Infof("  ✅ %d blocked e-mail domains loaded", n)
	}

	httpClient := federated.NewHTTPClient(cfg.Federated)
	resolver := federated.NewResolver(
		map[federated.Kind]federated.Verifier{
			federated.KindGoogle:          federated.NewGoogleVerifier(cfg.Federated, httpClient),
			federated.KindGoogleAssertion: federated.NewAssertionDecoder(),
			federated.KindFacebook:        federated.NewFacebookVerifier(cfg.Federated, httpClient),
		},
		accountRepo,
		hasher,
		c.Tokens,
		audit,
	)

	c.LanguageService = language.NewService(languageRepo)

	c.AccountService = accountsrv.NewAccountService(
		accountRepo,
		hasher,
		c.Tokens,
		otpsrv.NewEngine(otpRepo, cfg.OTP),
		resolver,
		c.LanguageService,
		deps.Mailer,
		blocklist,
		audit,
	)
	if deps.Images != nil {
		c.AccountService.WithImageStore(deps.Images)
	}

	c.AdminService = adminsrv.NewAdminService(adminRepo, hasher, c.Tokens, audit)

	// ── Middleware ───────────────────────────────────────────────────────

	c.Gate = auth.NewGate(c.Tokens, c.AccountService, audit)

	var nonces signing.NonceStore
	if cfg.Signing.NonceCache && deps.Redis != nil {
		nonces = signing.NewRedisNonceStore(deps.Redis)
		logx.Info("  ✅ Signed request nonce cache enabled")
	}
	c.Guard = signing.NewGuard(signing.NewSigner(cfg.Signing), cfg.Signing, nonces)

	// ── Handlers ─────────────────────────────────────────────────────────

	c.AccountHandlers = accountapi.NewHandlers(c.AccountService)
	c.AdminHandlers = adminapi.NewHandlers(c.AdminService)
	c.LanguageHandlers = languageapi.NewHandlers(c.LanguageService)

	logx.Info("✅ IAM container initialized")
	return c, nil
}

func newOTPRepository(deps Deps, cfg config.OTPConfig) otp.Repository {
	switch {
	case cfg.Store == "redis" && deps.Redis != nil:
		logx.Info("  ✅ OTP challenges stored in Redis")
		return otpinfra.NewRedisRepository(deps.Redis, cfg.TTL)
	case cfg.Store == "postgres" && deps.DB != nil:
		logx.Info("  ✅ OTP challenges stored in Postgres")
		return otpinfra.NewPostgresRepository(deps.DB)
	default:
		logx.Warn("  ⚠️  OTP challenges stored in memory")
		return otpinfra.NewMemoryRepository()
	}
}

// RegisterRoutes mounts every IAM route. CaptureMeta must already be installed.
func (c *Container) RegisterRoutes(app *fiber.App) {
	c.AccountHandlers.RegisterRoutes(app, c.Gate, c.Guard)
	c.AdminHandlers.RegisterRoutes(app, c.Gate)
	c.LanguageHandlers.RegisterRoutes(app.Group("/api"))
}

// Bootstrap seeds the configured first admin.
func (c *Container) Bootstrap(ctx context.Context) error {
	if err := c.AdminService.Bootstrap(ctx, c.cfg.Admin); err != nil {
		return err
	}
	if c.cfg.Admin.BootstrapEmail != "" {
		logx.WithContext(ctx).WithField("email", c.cfg.Admin.BootstrapEmail).Info("  ✅ Bootstrap admin ensured")
	}
	return nil
}
