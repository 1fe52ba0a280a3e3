package auth

import (
	"context"

	"github.com/Abraxas-365/passport/pkg/kernel"
)

// CallerLookup materializes the caller behind a role-less token.
// It returns nil, nil when the account no longer exists.
type CallerLookup interface {
	LookupCaller(ctx context.Context, id kernel.AccountID) (*kernel.Caller, error)
}

// AuditService records security-relevant events.
type AuditService interface {
	LogLoginAttempt(ctx context.Context, email string, method string, success bool)
	LogTokenRefresh(ctx context.Context, id kernel.AccountID)
	LogOTPVerification(ctx context.Context, scope string, purpose string, success bool)
	LogAccountCreated(ctx context.Context, id kernel.AccountID, method string)
	LogAccountLinked(ctx context.Context, id kernel.AccountID, method string)
	LogPermissionDenied(ctx context.Context, path string, role kernel.Role)
}
