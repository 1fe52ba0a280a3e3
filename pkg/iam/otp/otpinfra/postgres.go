package otpinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository relies on the UNIQUE (scope_key, purpose) index of
// otp_challenges for insert-if-absent.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) InsertIfAbsent(ctx context.Context, c *otp.Challenge) (*otp.Challenge, bool, error) {
	query := `
		INSERT INTO otp_challenges (id, scope_key, email, phone, purpose, code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (scope_key, purpose) DO NOTHING
		RETURNING id, scope_key, email, phone, purpose, code, created_at`

	var stored otp.Challenge
	err := r.db.GetContext(ctx, &stored, query, c.ID, c.ScopeKey, c.Email, c.Phone, c.Purpose, c.Code, c.CreatedAt)
	if err == nil {
		return &stored, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Conflict on another unique index (id); treat as existing.
			return r.existing(ctx, c)
		}
		return nil, false, otp.ErrStoreFailed(err).WithDetail("op", "insert")
	}

	// No row returned: a challenge already holds (scope_key, purpose).
	return r.existing(ctx, c)
}

func (r *PostgresRepository) existing(ctx context.Context, c *otp.Challenge) (*otp.Challenge, bool, error) {
	found, err := r.Find(ctx, c.ScopeKey, c.Purpose)
	if err != nil {
		return nil, false, err
	}
	if found == nil {
		return nil, false, otp.ErrStoreFailed(nil).WithDetail("op", "insert").WithDetail("reason", "concurrent consume")
	}
	return found, false, nil
}

func (r *PostgresRepository) Find(ctx context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	var c otp.Challenge
	query := `SELECT id, scope_key, email, phone, purpose, code, created_at
		FROM otp_challenges WHERE scope_key = $1 AND purpose = $2`
	if err := r.db.GetContext(ctx, &c, query, scopeKey, purpose); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, otp.ErrStoreFailed(err).WithDetail("op", "find")
	}
	return &c, nil
}

func (r *PostgresRepository) Take(ctx context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	var c otp.Challenge
	query := `DELETE FROM otp_challenges WHERE scope_key = $1 AND purpose = $2
		RETURNING id, scope_key, email, phone, purpose, code, created_at`
	if err := r.db.GetContext(ctx, &c, query, scopeKey, purpose); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, otp.ErrStoreFailed(err).WithDetail("op", "take")
	}
	return &c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, c *otp.Challenge) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE id = $1`, c.ID); err != nil {
		return otp.ErrStoreFailed(err).WithDetail("op", "delete")
	}
	return nil
}
