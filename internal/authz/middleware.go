package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/token"
)

// Verifier checks a raw bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, raw, kind string) (*token.Claims, error)
}

// PrincipalLoader resolves a verified subject into a principal (id + role).
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID int64) (Principal, error)
}

// Middleware wires authentication and role gating for HTTP handlers.
type Middleware struct {
	Tokens Verifier
	Loader PrincipalLoader
	Logger *slog.Logger
}

// Authenticate verifies the bearer access token, resolves the principal and
// stores it in the request context. Requests without a valid, unrevoked
// token are rejected with 401.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		claims, err := m.Tokens.Verify(r.Context(), raw, token.KindAccess)
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		principal, err := m.Loader.LoadPrincipal(r.Context(), userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("load principal", slog.Int64("user_id", userID), slog.Any("error", err))
			}
			httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		ctx := ContextWithPrincipal(r.Context(), principal)
		ctx = ContextWithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles gates the wrapped handlers on the principal's role. The
// middleware assumes Authenticate already ran.
func (m Middleware) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.Fail(w, http.StatusForbidden, httpx.ForbiddenMessage)
				return
			}
			if d := HasRole(principal, roles...); !d.Allowed {
				if m.Logger != nil {
					m.Logger.Warn("role gate denied", slog.String("path", r.URL.Path), slog.String("reason", d.Reason))
				}
				httpx.Fail(w, http.StatusForbidden, httpx.ForbiddenMessage)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

type claimsContextKey struct{}

// ContextWithClaims stores the verified token claims in context so logout
// and revoke endpoints can reach the presented token's jti.
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the verified token claims from context.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims, ok
}
