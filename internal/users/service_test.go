package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/shared"
)

type stubRepo struct {
	users map[int64]User
}

func (r stubRepo) List(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, len(out), nil
}

func (r stubRepo) Get(ctx context.Context, id int64) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return u, nil
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	svc := NewService(stubRepo{users: map[int64]User{
		7: {ID: 7, Username: "reader", Role: authz.RoleUser},
	}})
	ctx := context.Background()

	_, err := svc.Get(ctx, authz.Principal{ID: 7, Role: authz.RoleUser}, 7)
	require.NoError(t, err, "users may read themselves")

	_, err = svc.Get(ctx, authz.Principal{ID: 1, Role: authz.RoleAdmin}, 7)
	require.NoError(t, err, "admins may read anyone")

	_, err = svc.Get(ctx, authz.Principal{ID: 8, Role: authz.RoleUser}, 7)
	require.ErrorIs(t, err, shared.ErrForbidden)

	// Missing users are 404 before any authorization outcome.
	_, err = svc.Get(ctx, authz.Principal{ID: 8, Role: authz.RoleUser}, 99)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
