package language

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/passport/pkg/errx"
)

// Language is a locale the product can be displayed in.
type Language struct {
	ID     string `db:"id" json:"id"`
	Locale string `db:"locale" json:"locale"`
	Name   string `db:"name" json:"name"`
	Image  string `db:"image" json:"image"`
	Sort   int    `db:"sort" json:"sort"`
	Status string `db:"status" json:"status"`
}

const StatusActive = "active"

// Repository reads the language table.
type Repository interface {
	// FindByLocale returns ErrNotFound when no active language has locale.
	FindByLocale(ctx context.Context, locale string) (*Language, error)
	// ListActive returns active languages ordered by sort.
	ListActive(ctx context.Context) ([]Language, error)
}

var ErrRegistry = errx.NewRegistry("LANGUAGE")

var CodeNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "language-not-found")

func ErrNotFound() *errx.Error { return ErrRegistry.New(CodeNotFound) }

// Service exposes the language table to the rest of the application.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByLocale(ctx context.Context, locale string) (*Language, error) {
	if locale == "" {
		return nil, ErrNotFound()
	}
	l, err := s.repo.FindByLocale(ctx, locale)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context) ([]Language, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Language{}
	}
	return items, nil
}
