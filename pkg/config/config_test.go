package config_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET_TOKEN", "access-secret")
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "refresh-secret")
	t.Setenv("KEY_SECRET_SIGN", "sign-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.UserAccessTTL != 30*24*time.Hour || cfg.Auth.UserRefreshTTL != 90*24*time.Hour {
		t.Fatalf("unexpected user TTLs: %v / %v", cfg.Auth.UserAccessTTL, cfg.Auth.UserRefreshTTL)
	}
	if cfg.Auth.RoleAccessTTL != 7*24*time.Hour || cfg.Auth.RoleRefreshTTL != 30*24*time.Hour {
		t.Fatalf("unexpected role TTLs: %v / %v", cfg.Auth.RoleAccessTTL, cfg.Auth.RoleRefreshTTL)
	}
	if cfg.Signing.Window != 30*time.Second {
		t.Fatalf("expected 30s window, got %v", cfg.Signing.Window)
	}
	if cfg.OTP.CodeLength != 6 {
		t.Fatalf("expected 6 digit codes, got %d", cfg.OTP.CodeLength)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("TIME_REQUIREMENT", "45")
	t.Setenv("JWT_USER_ACCESS_TTL", "2d")
	t.Setenv("ACCOUNT_BLOCKED_DOMAINS", "mailinator.com, yopmail.com")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Signing.Window != 45*time.Second {
		t.Fatalf("expected 45s window, got %v", cfg.Signing.Window)
	}
	if cfg.Auth.UserAccessTTL != 48*time.Hour {
		t.Fatalf("expected 48h, got %v", cfg.Auth.UserAccessTTL)
	}
	if len(cfg.Account.BlockedDomains) != 2 || cfg.Account.BlockedDomains[1] != "yopmail.com" {
		t.Fatalf("unexpected blocked domains: %v", cfg.Account.BlockedDomains)
	}
}

func TestLoad_RejectsSharedSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "access-secret")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error when access and refresh secrets are equal")
	}
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET_TOKEN", "")
	t.Setenv("JWT_SECRET_REFRESH_TOKEN", "")
	t.Setenv("KEY_SECRET_SIGN", "")

	if _, err := config.Load(); err == nil {
		t.Fatal("expected error without secrets")
	}
}
