package authz

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/token"
)

type stubVerifier struct {
	claims *token.Claims
	err    error
}

func (v stubVerifier) Verify(ctx context.Context, raw, kind string) (*token.Claims, error) {
	return v.claims, v.err
}

type stubLoader struct {
	principal Principal
	err       error
}

func (l stubLoader) LoadPrincipal(ctx context.Context, userID int64) (Principal, error) {
	return l.principal, l.err
}

func accessClaims(sub string) *token.Claims {
	return &token.Claims{
		Kind:             token.KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{Subject: sub},
	}
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticateMissingToken(t *testing.T) {
	m := Middleware{Tokens: stubVerifier{}, Loader: stubLoader{}}
	var hit bool

	rr := httptest.NewRecorder()
	m.Authenticate(okHandler(&hit)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, hit)
	require.Contains(t, rr.Body.String(), "missing or invalid token")
}

func TestAuthenticateRejectedToken(t *testing.T) {
	m := Middleware{Tokens: stubVerifier{err: errors.New("revoked")}, Loader: stubLoader{}}
	var hit bool

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rr := httptest.NewRecorder()
	m.Authenticate(okHandler(&hit)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.False(t, hit)
}

func TestAuthenticateStoresPrincipal(t *testing.T) {
	want := Principal{ID: 12, Role: RoleUser}
	m := Middleware{Tokens: stubVerifier{claims: accessClaims("12")}, Loader: stubLoader{principal: want}}

	var got Principal
	var gotClaims bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFromContext(r.Context())
		_, gotClaims = ClaimsFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sometoken")
	rr := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, want, got)
	require.True(t, gotClaims)
}

func TestRequireRoles(t *testing.T) {
	m := Middleware{}
	gate := m.RequireRoles(RoleAdmin)

	var hit bool
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{ID: 1, Role: RoleUser}))
	rr := httptest.NewRecorder()
	gate(okHandler(&hit)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, hit)
	require.Contains(t, rr.Body.String(), "Unauthorized access")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithPrincipal(req.Context(), Principal{ID: 1, Role: RoleAdmin}))
	rr = httptest.NewRecorder()
	gate(okHandler(&hit)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, hit)
}

func TestRequireRolesWithoutPrincipal(t *testing.T) {
	m := Middleware{}
	var hit bool
	rr := httptest.NewRecorder()
	m.RequireRoles(RoleAdmin)(okHandler(&hit)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusForbidden, rr.Code)
	require.False(t, hit)
}
