package config

import "time"

// AuthConfig holds token secrets and lifetimes.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string

	// End-user tokens
	UserAccessTTL  time.Duration
	UserRefreshTTL time.Duration

	// Role-bearing (back-office) tokens
	RoleAccessTTL  time.Duration
	RoleRefreshTTL time.Duration

	BcryptCost int
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		AccessSecret:   getEnv("JWT_SECRET_TOKEN", ""),
		RefreshSecret:  getEnv("JWT_SECRET_REFRESH_TOKEN", ""),
		Issuer:         getEnv("JWT_ISSUER", "passport"),
		UserAccessTTL:  getEnvDuration("JWT_USER_ACCESS_TTL", 30*24*time.Hour),
		UserRefreshTTL: getEnvDuration("JWT_USER_REFRESH_TTL", 90*24*time.Hour),
		RoleAccessTTL:  getEnvDuration("JWT_ROLE_ACCESS_TTL", 7*24*time.Hour),
		RoleRefreshTTL: getEnvDuration("JWT_ROLE_REFRESH_TTL", 30*24*time.Hour),
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),
	}
}

// OTPConfig configures the one-time code engine.
type OTPConfig struct {
	// Store is "postgres", "redis" or "memory".
	Store      string
	CodeLength int
	// TTL of a challenge; zero keeps challenges until consumed.
	TTL time.Duration
}

func loadOTPConfig() OTPConfig {
	return OTPConfig{
		Store:      getEnv("OTP_STORE", "postgres"),
		CodeLength: getEnvInt("OTP_CODE_LENGTH", 6),
		TTL:        getEnvDuration("OTP_TTL", 15*time.Minute),
	}
}

// SigningConfig configures request signing for machine clients.
type SigningConfig struct {
	KeySecret  string
	KeyVersion string
	Window     time.Duration
	NonceCache bool
}

func loadSigningConfig() SigningConfig {
	return SigningConfig{
		KeySecret:  getEnv("KEY_SECRET_SIGN", ""),
		KeyVersion: getEnv("KEY_VERSION_SIGN", "v"),
		Window:     time.Duration(getEnvInt("TIME_REQUIREMENT", 30)) * time.Second,
		NonceCache: getEnvBool("SIGN_NONCE_CACHE", false),
	}
}

// FederatedConfig configures the identity-provider verifiers.
type FederatedConfig struct {
	HTTPTimeout        time.Duration
	GoogleTokenInfoURL string
	FacebookGraphURL   string
}

func loadFederatedConfig() FederatedConfig {
	return FederatedConfig{
		HTTPTimeout:        getEnvDuration("FEDERATED_HTTP_TIMEOUT", 8*time.Second),
		GoogleTokenInfoURL: getEnv("GOOGLE_TOKENINFO_URL", "https://www.googleapis.com/oauth2/v2/tokeninfo"),
		FacebookGraphURL:   getEnv("FACEBOOK_GRAPH_URL", "https://graph.facebook.com"),
	}
}

// AccountConfig holds registration rules.
type AccountConfig struct {
	BlockedDomains     []string
	BlockedDomainsFile string
}

func loadAccountConfig() AccountConfig {
	return AccountConfig{
		BlockedDomains:     getEnvStringSlice("ACCOUNT_BLOCKED_DOMAINS", nil),
		BlockedDomainsFile: getEnv("ACCOUNT_BLOCKED_DOMAINS_FILE", ""),
	}
}

// AdminConfig seeds the first back-office account at startup when both the
// e-mail and password are set and no admin with that e-mail exists.
type AdminConfig struct {
	BootstrapEmail    string
	BootstrapPassword string
	BootstrapName     string
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		BootstrapEmail:    getEnv("ADMIN_BOOTSTRAP_EMAIL", ""),
		BootstrapPassword: getEnv("ADMIN_BOOTSTRAP_PASSWORD", ""),
		BootstrapName:     getEnv("ADMIN_BOOTSTRAP_NAME", "Administrator"),
	}
}
