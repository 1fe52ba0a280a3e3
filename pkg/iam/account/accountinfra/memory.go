package accountinfra

import (
	"context"
	"slices"
	"sync"

	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/kernel"
)

// MemoryAccountRepository keeps accounts in process. It is used by tests and
// by DB_DRIVER=memory.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	byID     map[kernel.AccountID]account.Account
	ordering []kernel.AccountID
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{byID: make(map[kernel.AccountID]account.Account)}
}

func (r *MemoryAccountRepository) Create(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return account.ErrEmailExists()
		}
	}
	r.byID[a.ID] = *a
	r.ordering = append(r.ordering, a.ID)
	return nil
}

func (r *MemoryAccountRepository) Update(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[a.ID]
	if !ok {
		return account.ErrUserNotFound()
	}
	updated := *a
	updated.Email = existing.Email
	updated.CreatedAt = existing.CreatedAt
	r.byID[a.ID] = updated
	return nil
}

func (r *MemoryAccountRepository) FindByID(_ context.Context, id kernel.AccountID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, account.ErrUserNotFound()
	}
	return &a, nil
}

func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	email = account.NormalizeEmail(email)
	return r.first(func(a *account.Account) bool { return a.Email == email })
}

func (r *MemoryAccountRepository) FindByUID(_ context.Context, uid string, method account.LoginMethod) (*account.Account, error) {
	if uid == "" {
		return nil, account.ErrUserNotFound()
	}
	return r.first(func(a *account.Account) bool { return a.UID == uid && a.LoginMethod == method })
}

func (r *MemoryAccountRepository) List(_ context.Context, opts kernel.PaginationOptions) (kernel.Paginated[account.Account], error) {
	opts = opts.Normalize()

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Clone(r.ordering)
	slices.Reverse(ids)

	total := len(ids)
	start := min(opts.Offset(), total)
	end := min(start+opts.PageSize, total)

	items := make([]account.Account, 0, end-start)
	for _, id := range ids[start:end] {
		items = append(items, r.byID[id])
	}
	return kernel.NewPaginated(items, opts.Page, opts.PageSize, total), nil
}

// Count returns the number of stored accounts.
func (r *MemoryAccountRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MemoryAccountRepository) first(match func(*account.Account) bool) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.ordering {
		a := r.byID[id]
		if match(&a) {
			return &a, nil
		}
	}
	return nil, account.ErrUserNotFound()
}
