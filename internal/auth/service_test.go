package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/roles"
	"github.com/bookhaven/bookhaven/internal/shared"
)

type stubRepo struct {
	byEmail map[string]*User
	byID    map[int64]*User
	nextID  int64
	created *User
}

func newStubRepo() *stubRepo {
	return &stubRepo{byEmail: map[string]*User{}, byID: map[int64]*User{}, nextID: 1}
}

func (r *stubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *stubRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *stubRepo) Create(ctx context.Context, username, email, passwordHash string, roleID int64) (*User, error) {
	if _, exists := r.byEmail[email]; exists {
		return nil, shared.ErrDuplicate
	}
	u := &User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		RoleName:     authz.RoleUser,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.nextID++
	r.byEmail[email] = u
	r.byID[u.ID] = u
	r.created = u
	return u, nil
}

type stubRoles struct{}

func (stubRoles) FindByName(ctx context.Context, name string) (roles.Role, error) {
	switch name {
	case authz.RoleAdmin:
		return roles.Role{ID: 1, Name: authz.RoleAdmin}, nil
	case authz.RoleUser:
		return roles.Role{ID: 2, Name: authz.RoleUser}, nil
	}
	return roles.Role{}, shared.ErrNotFound
}

func (stubRoles) List(ctx context.Context) ([]roles.Role, error) {
	return []roles.Role{{ID: 1, Name: authz.RoleAdmin}, {ID: 2, Name: authz.RoleUser}}, nil
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubRoles{})

	user, err := svc.Register(context.Background(), "reader", "reader@example.com", "Abcdef1!")
	require.NoError(t, err)
	require.EqualValues(t, 2, user.RoleID, "registration always assigns the user role")
	require.NotEqual(t, "Abcdef1!", user.PasswordHash, "password is stored hashed")
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Abcdef1!")))
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubRoles{})

	_, err := svc.Register(context.Background(), "reader", "reader@example.com", "weak")
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Nil(t, repo.created, "nothing is persisted on policy failure")
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubRoles{})

	_, err := svc.Register(context.Background(), "reader", "reader@example.com", "Abcdef1!")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "other", "reader@example.com", "Abcdef1!")
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestAuthenticateSameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubRoles{})

	_, err := svc.Register(context.Background(), "reader", "reader@example.com", "Abcdef1!")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "Abcdef1!")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "reader@example.com", "Wrong9!pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	user, err := svc.Authenticate(context.Background(), "reader@example.com", "Abcdef1!")
	require.NoError(t, err)
	require.Equal(t, "reader", user.Username)
}

func TestLoadPrincipal(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, stubRoles{})

	created, err := svc.Register(context.Background(), "reader", "reader@example.com", "Abcdef1!")
	require.NoError(t, err)

	p, err := svc.LoadPrincipal(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, authz.Principal{ID: created.ID, Role: authz.RoleUser}, p)

	_, err = svc.LoadPrincipal(context.Background(), 999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
