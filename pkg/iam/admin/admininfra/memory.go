package admininfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/admin"
)

// MemoryAdminRepository keeps admins in process, keyed by e-mail.
type MemoryAdminRepository struct {
	mu      sync.RWMutex
	byEmail map[string]admin.Admin
}

func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{byEmail: make(map[string]admin.Admin)}
}

func (r *MemoryAdminRepository) FindByEmail(_ context.Context, email string) (*admin.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byEmail[email]
	if !ok {
		return nil, admin.ErrNotFound()
	}
	return &a, nil
}

func (r *MemoryAdminRepository) Create(_ context.Context, a *admin.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[a.Email]; exists {
		return account.ErrEmailExists()
	}
	r.byEmail[a.Email] = *a
	return nil
}
