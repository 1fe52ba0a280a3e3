package notifxinfra

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/Abraxas-365/passport/pkg/errx"
	"github.com/Abraxas-365/passport/pkg/notifx"
	"github.com/jmoiron/sqlx"
)

// PostgresTemplateStore reads mail_templates; content is a jsonb object
// keyed by language.
type PostgresTemplateStore struct {
	db *sqlx.DB
}

func NewPostgresTemplateStore(db *sqlx.DB) *PostgresTemplateStore {
	return &PostgresTemplateStore{db: db}
}

type contents map[string]notifx.TemplateContent

func (c *contents) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*c = contents{}
		return nil
	default:
		return errors.New("mail_templates.content: unsupported type")
	}
	return json.Unmarshal(raw, c)
}

func (c contents) Value() (driver.Value, error) {
	return json.Marshal(c)
}

type templateRow struct {
	Keyword string   `db:"keyword"`
	Name    string   `db:"name"`
	Content contents `db:"content"`
	Status  string   `db:"status"`
}

func (s *PostgresTemplateStore) GetByKeyword(ctx context.Context, keyword string) (*notifx.MailTemplate, error) {
	var row templateRow
	query := `SELECT keyword, name, content, status FROM mail_templates WHERE keyword = $1 AND status = $2`
	if err := s.db.GetContext(ctx, &row, query, keyword, notifx.TemplateStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, notifx.ErrTemplateNotFound(keyword)
		}
		return nil, errx.Wrap(err, "failed to load mail template", errx.TypeInternal).WithDetail("keyword", keyword)
	}
	return &notifx.MailTemplate{
		Keyword: row.Keyword,
		Name:    row.Name,
		Content: row.Content,
		Status:  row.Status,
	}, nil
}

// Save upserts a template.
func (s *PostgresTemplateStore) Save(ctx context.Context, t notifx.MailTemplate) error {
	row := templateRow{Keyword: t.Keyword, Name: t.Name, Content: t.Content, Status: t.Status}
	if row.Status == "" {
		row.Status = notifx.TemplateStatusActive
	}
	query := `
		INSERT INTO mail_templates (keyword, name, content, status)
		VALUES (:keyword, :name, :content, :status)
		ON CONFLICT (keyword) DO UPDATE SET name = EXCLUDED.name, content = EXCLUDED.content, status = EXCLUDED.status`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return errx.Wrap(err, "failed to save mail template", errx.TypeInternal).WithDetail("keyword", t.Keyword)
	}
	return nil
}

// SeedMissing saves each template whose keyword is not stored yet. Existing rows
// are left alone so edited templates survive restarts.
func (s *PostgresTemplateStore) SeedMissing(ctx context.Context, templates []notifx.MailTemplate) (int, error) {
	seeded := 0
	for _, t := range templates {
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM mail_templates WHERE keyword = $1)`, t.Keyword); err != nil {
			return seeded, errx.Wrap(err, "check mail template", errx.TypeInternal)
		}
		if exists {
			continue
		}
		if err := s.Save(ctx, t); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
