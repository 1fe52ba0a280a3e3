package otpsrv

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/Abraxas-365/passport/pkg/config"
	"github.com/Abraxas-365/passport/pkg/iam/otp"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/google/uuid"
)

// Engine runs the challenge/response flow on top of an otp.Repository.
type Engine struct {
	repo   otp.Repository
	length int
	ttl    time.Duration
	now    func() time.Time
}

func NewEngine(repo otp.Repository, cfg config.OTPConfig) *Engine {
	length := cfg.CodeLength
	if length <= 0 {
		length = otp.CodeLength
	}
	return &Engine{
		repo:   repo,
		length: length,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Generate returns the live challenge for (scope, purpose), creating one if none
// exists. Only a created challenge reports StatusNew.
func (e *Engine) Generate(ctx context.Context, scope otp.Scope, purpose otp.Purpose) (*otp.GenerateResult, error) {
	if scope.IsEmpty() {
		return nil, otp.ErrInvalidScope()
	}

	code, err := otp.GenerateCode(e.length)
	if err != nil {
		return nil, otp.ErrGenerationFailed(err)
	}

	fresh := &otp.Challenge{
		ID:        uuid.NewString(),
		ScopeKey:  scope.Key(),
		Email:     scope.Email,
		Phone:     scope.Phone,
		Purpose:   purpose,
		Code:      code,
		CreatedAt: e.now().UTC(),
	}

	// One retry covers replacing an expired challenge.
	for attempt := 0; attempt < 2; attempt++ {
		stored, inserted, err := e.repo.InsertIfAbsent(ctx, fresh)
		if err != nil {
			return nil, err
		}
		if inserted {
			return &otp.GenerateResult{Status: otp.StatusNew, Challenge: stored}, nil
		}
		if !stored.IsExpired(e.now(), e.ttl) {
			return &otp.GenerateResult{Status: otp.StatusExist, Challenge: stored}, nil
		}

		logx.WithContext(ctx).WithFields(logx.Fields{
			"purpose": purpose,
			"age":     e.now().Sub(stored.CreatedAt).String(),
		}).Debug("otp: replacing expired challenge")

		if err := e.repo.Delete(ctx, stored); err != nil {
			return nil, err
		}
	}

	stored, err := e.repo.Find(ctx, fresh.ScopeKey, purpose)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, otp.ErrStoreFailed(nil).WithDetail("reason", "challenge vanished during replacement")
	}
	return &otp.GenerateResult{Status: otp.StatusExist, Challenge: stored}, nil
}

// Check reports whether code matches the live challenge without consuming it.
func (e *Engine) Check(ctx context.Context, scope otp.Scope, purpose otp.Purpose, code string) (bool, error) {
	c, err := e.repo.Find(ctx, scope.Key(), purpose)
	if err != nil || c == nil {
		return false, err
	}
	if c.IsExpired(e.now(), e.ttl) {
		return false, nil
	}
	return codesEqual(c.Code, code), nil
}

// Verify consumes the challenge for (scope, purpose) whether or not code matches.
// A missing challenge returns false with no side effects.
func (e *Engine) Verify(ctx context.Context, scope otp.Scope, purpose otp.Purpose, code string) (bool, error) {
	c, err := e.repo.Take(ctx, scope.Key(), purpose)
	if err != nil || c == nil {
		return false, err
	}
	if c.IsExpired(e.now(), e.ttl) {
		return false, nil
	}
	return codesEqual(c.Code, code), nil
}

func codesEqual(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
