package languageinfra

import (
	"cmp"
	"context"
	"slices"

	"github.com/Abraxas-365/passport/pkg/iam/language"
)

// MemoryLanguageRepository serves a fixed language table.
type MemoryLanguageRepository struct {
	items []language.Language
}

// DefaultLanguages seeds memory mode.
var DefaultLanguages = []language.Language{
	{ID: "en", Locale: "en", Name: "English", Sort: 1, Status: language.StatusActive},
	{ID: "vi", Locale: "vi", Name: "Tiếng Việt", Sort: 2, Status: language.StatusActive},
}

func NewMemoryLanguageRepository(items ...language.Language) *MemoryLanguageRepository {
	if len(items) == 0 {
		items = DefaultLanguages
	}
	return &MemoryLanguageRepository{items: slices.Clone(items)}
}

func (r *MemoryLanguageRepository) FindByLocale(_ context.Context, locale string) (*language.Language, error) {
	for _, l := range r.items {
		if l.Locale == locale && l.Status == language.StatusActive {
			return &l, nil
		}
	}
	return nil, language.ErrNotFound().WithDetail("locale", locale)
}

func (r *MemoryLanguageRepository) ListActive(_ context.Context) ([]language.Language, error) {
	var out []language.Language
	for _, l := range r.items {
		if l.Status == language.StatusActive {
			out = append(out, l)
		}
	}
	slices.SortStableFunc(out, func(a, b language.Language) int {
		return cmp.Compare(a.Sort, b.Sort)
	})
	return out, nil
}
