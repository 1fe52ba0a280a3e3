package adminsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/google/uuid"
)

type AdminService struct {
	admins admin.Repository
	hasher auth.PasswordHasher
	tokens *auth.TokenManager
	audit  auth.AuditService
}

func NewAdminService(
	admins admin.Repository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenManager,
	audit auth.AuditService,
) *AdminService {
	return &AdminService{
		admins: admins,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
	}
}

// Create adds a back-office account. The route is restricted to admin and
// marketing callers by the gate.
func (s *AdminService) Create(ctx context.Context, req admin.CreateRequest) (*admin.Admin, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := account.NormalizeEmail(req.Email)
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil, account.ErrEmailExists()
	} else if !errx.IsCode(err, admin.CodeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &admin.Admin{
		ID:           kernel.NewAccountID(uuid.NewString()),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         kernel.Role(req.Role),
		Status:       account.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.admins.Create(ctx, a); err != nil {
		return nil, err
	}

	entry := logx.WithContext(ctx).WithFields(logx.Fields{
		"admin_id": a.ID.String(),
		"role":     a.Role.String(),
	})
	if caller := kernel.CallerFrom(ctx); caller != nil {
		entry = entry.WithField("created_by", caller.AccountID.String())
	}
	entry.Info("admin created")
	s.audit.LogAccountCreated(ctx, a.ID, "admin:"+a.Role.String())
	return a, nil
}

// Login checks credentials and issues role-bearing tokens.
func (s *AdminService) Login(ctx context.Context, req account.LoginRequest) (*admin.AuthResponse, error) {
	email := account.NormalizeEmail(req.Email)

	a, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if errx.IsCode(err, admin.CodeNotFound) {
			s.audit.LogLoginAttempt(ctx, email, "admin", false)
			return nil, account.ErrInvalidCredentials()
		}
		return nil, err
	}
	if a.Status != account.StatusActive || !s.hasher.Verify(req.Password, a.PasswordHash) {
		s.audit.LogLoginAttempt(ctx, email, "admin", false)
		return nil, account.ErrWrongPassword()
	}

	pair, err := s.tokens.IssuePair(auth.Subject{ID: a.ID, Email: a.Email, Role: a.Role})
	if err != nil {
		return nil, err
	}

	s.audit.LogLoginAttempt(ctx, email, "admin", true)
	return &admin.AuthResponse{
		AdminDTO:     a.ToDTO(),
		Token:        pair.Token,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Bootstrap creates the configured first admin if it does not exist yet.
func (s *AdminService) Bootstrap(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return nil
	}

	_, err := s.Create(ctx, admin.CreateRequest{
		Name:     cfg.BootstrapName,
		Email:    cfg.BootstrapEmail,
		Password: cfg.BootstrapPassword,
		Role:     kernel.RoleAdmin.String(),
	})
	if err != nil && !account.IsEmailExists(err) {
		return err
	}
	return nil
}
