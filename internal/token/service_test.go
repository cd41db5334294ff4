package token

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService("test-secret", time.Hour, 24*time.Hour, NewRevocationSet(client))
	return svc, mr
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, _ := newTestService(t)

	raw, err := svc.IssueAccess(42)
	require.NoError(t, err)

	claims, err := svc.Verify(context.Background(), raw, KindAccess)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
	require.NotEmpty(t, claims.ID)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	svc, _ := newTestService(t)

	refresh, err := svc.IssueRefresh(42)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), refresh, KindAccess)
	require.ErrorIs(t, err, ErrWrongKind)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService(t)
	other := NewService("other-secret", time.Hour, 24*time.Hour, svc.revoked)

	raw, err := other.IssueAccess(42)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokedTokenIsRejectedDespiteValidSignature(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	raw, err := svc.IssueAccess(7)
	require.NoError(t, err)

	claims, err := svc.Verify(ctx, raw, KindAccess)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, claims))

	_, err = svc.Verify(ctx, raw, KindAccess)
	require.ErrorIs(t, err, ErrRevoked)
}

func TestRevocationEntryExpiresWithToken(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	raw, err := svc.IssueAccess(7)
	require.NoError(t, err)
	claims, err := svc.Verify(ctx, raw, KindAccess)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, claims))

	// Once the token's natural expiry passes, the entry self-cleans.
	mr.FastForward(2 * time.Hour)

	revoked, err := svc.revoked.Contains(ctx, claims.ID)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Now().UTC().Add(-2 * time.Hour) }

	raw, err := svc.IssueAccess(7)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().UTC() }
	_, err = svc.Verify(context.Background(), raw, KindAccess)
	require.ErrorIs(t, err, ErrInvalidToken)
}
