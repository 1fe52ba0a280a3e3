package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/kernel"
)

// Admin is a back-office account. Its role is carried in the tokens it is
// issued, so the gate never looks it up.
type Admin struct {
	ID           kernel.AccountID `db:"id"`
	Name         string           `db:"name"`
	Email        string           `db:"email"`
	PasswordHash string           `db:"password_hash"`
	Role         kernel.Role      `db:"role"`
	Status       account.Status   `db:"status"`
	CreatedAt    time.Time        `db:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at"`
}

type AdminDTO struct {
	ID        kernel.AccountID `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      kernel.Role      `json:"role"`
	Status    account.Status   `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (a *Admin) ToDTO() AdminDTO {
	return AdminDTO{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

// Repository persists admins. FindByEmail returns ErrNotFound when absent;
// Create returns account.ErrEmailExists on a duplicate.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, a *Admin) error
}

// ============================================================================
// Requests
// ============================================================================

type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return account.ErrInvalidInput("name", "is required")
	}
	if !account.ValidEmail(account.NormalizeEmail(r.Email)) {
		return account.ErrInvalidInput("email", "must be a valid e-mail address")
	}
	if err := account.ValidatePassword("password", r.Password); err != nil {
		return err
	}
	if role, ok := kernel.ParseRole(r.Role); !ok || role == kernel.RoleNone {
		return ErrInvalidRole(r.Role)
	}
	return nil
}

type AuthResponse struct {
	AdminDTO
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// ============================================================================
// Errors
// ============================================================================

var ErrRegistry = errx.NewRegistry("ADMIN")

var (
	CodeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "admin-not-found")
	CodeInvalidRole = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "role must be admin, marketing or partner")
)

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

func ErrInvalidRole(role string) *errx.Error {
	return ErrRegistry.New(CodeInvalidRole).WithDetail("role", role)
}
