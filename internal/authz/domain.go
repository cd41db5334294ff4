// Package authz decides whether an authenticated principal may perform an
// operation on a target resource. Two composable policies exist: role gating
// and per-resource ownership.
package authz

import "context"

// Role names form a small closed set.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Principal describes the authenticated actor for the duration of one request.
type Principal struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow grants the operation.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny refuses the operation with a reason for the log; the client always
// sees the fixed "Unauthorized access" message.
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
