package languageinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/iam/language"
	"github.com/jmoiron/sqlx"
)

type PostgresLanguageRepository struct {
	db *sqlx.DB
}

func NewPostgresLanguageRepository(db *sqlx.DB) *PostgresLanguageRepository {
	return &PostgresLanguageRepository{db: db}
}

func (r *PostgresLanguageRepository) FindByLocale(ctx context.Context, locale string) (*language.Language, error) {
	var l language.Language
	query := `SELECT id, locale, name, image, sort, status FROM languages WHERE locale = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &l, query, locale, language.StatusActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, language.ErrNotFound().WithDetail("locale", locale)
		}
		return nil, errx.Wrap(err, "failed to find language", errx.TypeInternal)
	}
	return &l, nil
}

func (r *PostgresLanguageRepository) ListActive(ctx context.Context) ([]language.Language, error) {
	var items []language.Language
	query := `SELECT id, locale, name, image, sort, status FROM languages WHERE status = $1 ORDER BY sort, locale`
	if err := r.db.SelectContext(ctx, &items, query, language.StatusActive); err != nil {
		return nil, errx.Wrap(err, "failed to list languages", errx.TypeInternal)
	}
	return items, nil
}
