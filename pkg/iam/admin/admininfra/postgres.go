package admininfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresAdminRepository is the PostgreSQL implementation of admin.Repository.
type PostgresAdminRepository struct {
	db *sqlx.DB
}

func NewPostgresAdminRepository(db *sqlx.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) FindByEmail(ctx context.Context, email string) (*admin.Admin, error) {
	var a admin.Admin
	query := `
		SELECT id, name, email, password_hash, role, status, created_at, updated_at
		FROM admins
		WHERE email = $1`

	if err := r.db.GetContext(ctx, &a, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, admin.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find admin", errx.TypeInternal)
	}
	return &a, nil
}

func (r *PostgresAdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :role, :status, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return account.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create admin", errx.TypeInternal).
			WithDetail("admin_id", a.ID.String())
	}
	return nil
}
