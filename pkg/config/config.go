// Package config loads the service configuration from the environment.
// Each section is handed to the component that needs it; nothing here is global.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/passport/pkg/errx"
)

var configErrors = errx.NewRegistry("CONFIG")

var ErrInvalidConfig = configErrors.Register("INVALID", errx.TypeInternal, 500, "Invalid configuration")

// Config is the root configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OTP       OTPConfig
	Signing   SigningConfig
	Federated FederatedConfig
	Account   AccountConfig
	Admin     AdminConfig
	Notifx    NotifxConfig
	Jobx      JobxConfig
	Storage   StorageConfig
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        string
	AppName     string
	Version     string
	BodyLimit   int
	CORSOrigins string
	Debug       bool
}

// DatabaseConfig configures Postgres. Driver "memory" keeps everything in process.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig configures the shared redis client.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads the whole configuration and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		OTP:       loadOTPConfig(),
		Signing:   loadSigningConfig(),
		Federated: loadFederatedConfig(),
		Account:   loadAccountConfig(),
		Admin:     loadAdminConfig(),
		Notifx:    loadNotifxConfig(),
		Jobx:      loadJobxConfig(),
		Storage:   loadStorageConfig(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-section requirements.
func (c *Config) Validate() error {
	invalid := func(reason string) error {
		return configErrors.New(ErrInvalidConfig).WithDetail("reason", reason)
	}

	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return invalid("JWT_SECRET_TOKEN and JWT_SECRET_REFRESH_TOKEN are required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return invalid("access and refresh secrets must differ")
	}
	if c.Signing.KeySecret == "" {
		return invalid("KEY_SECRET_SIGN is required")
	}
	if c.OTP.Store == "redis" && !c.Redis.Enabled {
		return invalid("OTP_STORE=redis requires REDIS_ENABLED")
	}
	if c.Signing.NonceCache && !c.Redis.Enabled {
		return invalid("SIGN_NONCE_CACHE requires REDIS_ENABLED")
	}
	if c.Notifx.Dispatch == "queue" && !c.Redis.Enabled {
		return invalid("NOTIFX_DISPATCH=queue requires REDIS_ENABLED")
	}
	if c.Database.Driver != "postgres" && c.Database.Driver != "memory" {
		return invalid("DB_DRIVER must be postgres or memory")
	}
	return nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnv("PORT", "8080"),
		AppName:     getEnv("APP_NAME", "Passport"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		BodyLimit:   getEnvInt("SERVER_BODY_LIMIT", 5*1024*1024),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Debug:       getEnvBool("DEBUG", false),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          getEnv("DB_DRIVER", "postgres"),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		Name:            getEnv("DB_NAME", "passport"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  getEnvBool("REDIS_ENABLED", true),
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// ============================================================================
// env helpers
// ============================================================================

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration accepts Go durations ("15m") and a day suffix ("30d").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := parseDuration(v); err == nil {
		return d
	}
	return fallback
}

func parseDuration(v string) (time.Duration, error) {
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil {
			return 0, err
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(v)
}

func getEnvStringSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
