package auth

import (
	"strings"

	"github.com/Abraxas-365/passport/pkg/iam"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

// AuthMode declares whether a route needs an authenticated caller.
type AuthMode int

const (
	// AuthNone skips the gate entirely.
	AuthNone AuthMode = iota
	// AuthOptional resolves a caller when a valid token is present.
	AuthOptional
	// AuthRequired rejects anonymous callers.
	AuthRequired
)

// Policy is declared per route.
type Policy struct {
	Auth  AuthMode
	Roles []kernel.Role
}

// Public, Authenticated and RequireRoles are the policies used by the routers.
var (
	Public        = Policy{Auth: AuthNone}
	Authenticated = Policy{Auth: AuthRequired}
)

func RequireRoles(roles ...kernel.Role) Policy {
	return Policy{Auth: AuthRequired, Roles: roles}
}

const (
	localsCaller = "caller"

	headerConnectingIP = "CF-Connecting-IP"
	headerCountry      = "CF-IPCountry"
)

// Gate combines token verification, role checks and account lookup.
type Gate struct {
	tokens *TokenManager
	lookup CallerLookup
	audit  AuditService
}

func NewGate(tokens *TokenManager, lookup CallerLookup, audit AuditService) *Gate {
	return &Gate{tokens: tokens, lookup: lookup, audit: audit}
}

// CaptureMeta stores client IP, country and request id in the request context.
// It runs for every request, authenticated or not.
func (g *Gate) CaptureMeta() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get(headerConnectingIP)
		if ip == "" {
			ip = c.IP()
		}
		requestID, _ := c.Locals("requestid").(string)

		meta := kernel.RequestMeta{
			RequestID: requestID,
			ClientIP:  ip,
			Country:   strings.ToUpper(c.Get(headerCountry)),
			UserAgent: c.Get(fiber.HeaderUserAgent),
		}
		c.SetUserContext(kernel.WithRequestMeta(c.UserContext(), meta))
		return c.Next()
	}
}

// Protect enforces p on the route it is mounted on.
func (g *Gate) Protect(p Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if p.Auth == AuthNone && len(p.Roles) == 0 {
			return c.Next()
		}

		ctx := c.UserContext()

		var claims *AccessClaims
		if token := bearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
			claims = g.tokens.Verify(token, Access)
		}

		if len(p.Roles) > 0 {
			role := kernel.RoleNone
			if claims != nil {
				role = claims.Role
			}
			if !roleAllowed(role, p.Roles) {
				if g.audit != nil {
					g.audit.LogPermissionDenied(ctx, c.Path(), role)
				}
				return iam.ErrPermissionDenied()
			}
		}

		if claims == nil {
			if p.Auth == AuthRequired {
				return iam.ErrUnauthorized()
			}
			return c.Next()
		}

		caller := &kernel.Caller{
			AccountID: kernel.AccountID(claims.ID),
			Email:     claims.Email,
			Role:      claims.Role,
		}

		if claims.Role == kernel.RoleNone {
			found, err := g.lookup.LookupCaller(ctx, caller.AccountID)
			if err != nil {
				logx.WithContext(ctx).WithError(err).Warn("gate: caller lookup failed")
				return err
			}
			if found == nil {
				return iam.ErrUnauthorized()
			}
			caller = found
		}

		c.Locals(localsCaller, caller)
		c.SetUserContext(kernel.WithCaller(ctx, caller))
		return c.Next()
	}
}

// CallerFrom returns the caller resolved by the gate for c, or nil.
func CallerFrom(c *fiber.Ctx) *kernel.Caller {
	caller, _ := c.Locals(localsCaller).(*kernel.Caller)
	return caller
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func roleAllowed(role kernel.Role, allowed []kernel.Role) bool {
	if role == kernel.RoleNone {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
