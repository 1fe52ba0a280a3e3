package otpinfra

import (
	"context"
	"sync"

	"github.com/Abraxas-365/passport/pkg/iam/otp"
)

// MemoryRepository keeps challenges in process. A single mutex makes
// InsertIfAbsent and Take atomic.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]otp.Challenge
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]otp.Challenge)}
}

func memoryKey(scopeKey string, purpose otp.Purpose) string {
	return string(purpose) + "#" + scopeKey
}

func (r *MemoryRepository) InsertIfAbsent(_ context.Context, c *otp.Challenge) (*otp.Challenge, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey(c.ScopeKey, c.Purpose)
	if existing, ok := r.items[k]; ok {
		return &existing, false, nil
	}
	r.items[k] = *c
	stored := *c
	return &stored, true, nil
}

func (r *MemoryRepository) Find(_ context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.items[memoryKey(scopeKey, purpose)]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryRepository) Take(_ context.Context, scopeKey string, purpose otp.Purpose) (*otp.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey(scopeKey, purpose)
	c, ok := r.items[k]
	if !ok {
		return nil, nil
	}
	delete(r.items, k)
	return &c, nil
}

func (r *MemoryRepository) Delete(_ context.Context, c *otp.Challenge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey(c.ScopeKey, c.Purpose)
	if existing, ok := r.items[k]; ok && existing.ID == c.ID {
		delete(r.items, k)
	}
	return nil
}
