package accountinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const accountColumns = `id, email, name, phone, password_hash, login_method, uid, avatar,
	email_verified, language, country, ip, status, created_at, updated_at`

// PostgresAccountRepository is the PostgreSQL implementation of account.Repository.
type PostgresAccountRepository struct {
	db *sqlx.DB
}

func NewPostgresAccountRepository(db *sqlx.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES (
			:id, :email, :name, :phone, :password_hash, :login_method, :uid, :avatar,
			:email_verified, :language, :country, :ip, :status, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation on email
			return account.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create account", errx.TypeInternal).
			WithDetail("account_id", a.ID.String())
	}
	return nil
}

func (r *PostgresAccountRepository) Update(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts SET
			name = :name,
			phone = :phone,
			password_hash = :password_hash,
			login_method = :login_method,
			uid = :uid,
			avatar = :avatar,
			email_verified = :email_verified,
			language = :language,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, a)
	if err != nil {
		return errx.Wrap(err, "failed to update account", errx.TypeInternal).
			WithDetail("account_id", a.ID.String())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return account.ErrUserNotFound()
	}
	return nil
}

func (r *PostgresAccountRepository) FindByID(ctx context.Context, id kernel.AccountID) (*account.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id.String())
}

func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, account.NormalizeEmail(email))
}

func (r *PostgresAccountRepository) FindByUID(ctx context.Context, uid string, method account.LoginMethod) (*account.Account, error) {
	if uid == "" {
		return nil, account.ErrUserNotFound()
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE uid = $1 AND login_method = $2
		ORDER BY created_at LIMIT 1`
	return r.findOne(ctx, query, uid, method)
}

func (r *PostgresAccountRepository) List(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[account.Account], error) {
	opts = opts.Normalize()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM accounts`); err != nil {
		return kernel.Paginated[account.Account]{}, errx.Wrap(err, "failed to count accounts", errx.TypeInternal)
	}

	var items []account.Account
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &items, query, opts.PageSize, opts.Offset()); err != nil {
		return kernel.Paginated[account.Account]{}, errx.Wrap(err, "failed to list accounts", errx.TypeInternal)
	}

	return kernel.NewPaginated(items, opts.Page, opts.PageSize, total), nil
}

func (r *PostgresAccountRepository) findOne(ctx context.Context, query string, args ...any) (*account.Account, error) {
	var a account.Account
	if err := r.db.GetContext(ctx, &a, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, account.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find account", errx.TypeInternal)
	}
	return &a, nil
}
