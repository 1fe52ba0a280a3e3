package kernel

import "context"

// ============================================================================
// Caller
// ============================================================================

// Caller is the identity resolved by the authorization gate for one request.
type Caller struct {
	AccountID AccountID `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role,omitempty"`
}

// IsEndUser reports whether the caller authenticated with a role-less token.
func (c *Caller) IsEndUser() bool {
	return c != nil && c.Role == RoleNone
}

// HasRole reports whether the caller holds any of the given roles.
func (c *Caller) HasRole(roles ...Role) bool {
	if c == nil || c.Role == RoleNone {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}

// ============================================================================
// Request metadata
// ============================================================================

// RequestMeta is captured from edge-proxy headers on every request.
type RequestMeta struct {
	RequestID string `json:"request_id"`
	ClientIP  string `json:"ip"`
	Country   string `json:"country"`
	UserAgent string `json:"user_agent"`
}

// ============================================================================
// Context Keys
// ============================================================================

type ContextKey string

const (
	CallerContextKey      ContextKey = "caller"
	RequestMetaContextKey ContextKey = "request_meta"
)

// WithCaller stores the resolved caller in ctx.
func WithCaller(ctx context.Context, c *Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, c)
}

// CallerFrom returns the caller stored in ctx, or nil for anonymous requests.
func CallerFrom(ctx context.Context) *Caller {
	c, _ := ctx.Value(CallerContextKey).(*Caller)
	return c
}

// WithRequestMeta stores request metadata in ctx.
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, RequestMetaContextKey, m)
}

// RequestMetaFrom returns the request metadata in ctx (zero value when absent).
func RequestMetaFrom(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(RequestMetaContextKey).(RequestMeta)
	return m
}
