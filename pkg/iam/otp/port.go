package otp

import "context"

// Repository stores challenges. Implementations must make InsertIfAbsent and
// Take atomic with respect to (scope key, purpose).
type Repository interface {
	// InsertIfAbsent stores c unless a challenge already exists for its
	// scope and purpose. It returns the stored challenge and whether c was inserted.
	InsertIfAbsent(ctx context.Context, c *Challenge) (*Challenge, bool, error)

	// Find returns the challenge for scope and purpose, or nil.
	Find(ctx context.Context, scopeKey string, purpose Purpose) (*Challenge, error)

	// Take removes and returns the challenge for scope and purpose, or nil.
	Take(ctx context.Context, scopeKey string, purpose Purpose) (*Challenge, error)

	// Delete removes c only if it is still the stored challenge.
	Delete(ctx context.Context, c *Challenge) error
}
