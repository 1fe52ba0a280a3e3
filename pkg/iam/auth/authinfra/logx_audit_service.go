package authinfra

import (
	"context"

	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx logging.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

func (s *LogxAuditService) event(ctx context.Context, name string, fields logx.Fields) *logx.Entry {
	meta := kernel.RequestMetaFrom(ctx)
	return logx.WithContext(ctx).
		WithFields(fields).
		WithFields(logx.Fields{
			"audit_event": name,
			"country":     meta.Country,
			"user_agent":  meta.UserAgent,
		})
}

func (s *LogxAuditService) LogLoginAttempt(ctx context.Context, email string, method string, success bool) {
	e := s.event(ctx, "login_attempt", logx.Fields{"email": email, "method": method, "success": success})
	if success {
		e.Info("Audit: login attempt")
		return
	}
	e.Warn("Audit: login attempt")
}

func (s *LogxAuditService) LogTokenRefresh(ctx context.Context, id kernel.AccountID) {
	s.event(ctx, "token_refresh", logx.Fields{"subject": id.String()}).Info("Audit: token refresh")
}

func (s *LogxAuditService) LogOTPVerification(ctx context.Context, scope string, purpose string, success bool) {
	s.event(ctx, "otp_verification", logx.Fields{"scope": scope, "purpose": purpose, "success": success}).
		Info("Audit: OTP verification")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, id kernel.AccountID, method string) {
	s.event(ctx, "account_created", logx.Fields{"subject": id.String(), "method": method}).Info("Audit: account created")
}

func (s *LogxAuditService) LogAccountLinked(ctx context.Context, id kernel.AccountID, method string) {
	s.event(ctx, "account_linked", logx.Fields{"subject": id.String(), "method": method}).Info("Audit: account linked")
}

func (s *LogxAuditService) LogPermissionDenied(ctx context.Context, path string, role kernel.Role) {
	s.event(ctx, "permission_denied", logx.Fields{"path": path, "role": role.String()}).Warn("Audit: permission denied")
}
