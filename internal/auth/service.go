package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/roles"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Service wraps registration and credential checks.
type Service struct {
	repo  Repository
	roles roles.Repository
}

// NewService constructs a new Service.
func NewService(repo Repository, roleRepo roles.Repository) *Service {
	return &Service{repo: repo, roles: roleRepo}
}

// Register creates a new account. The role always defaults to "user";
// elevated roles are never self-assigned.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByName(ctx, authz.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("auth: default role lookup: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, username, email, string(hash), role.ID)
}

// Authenticate validates email/password credentials. The same error comes
// back for an unknown email and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// LoadPrincipal resolves a verified token subject into a principal.
func (s *Service) LoadPrincipal(ctx context.Context, userID int64) (authz.Principal, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{ID: user.ID, Role: user.RoleName}, nil
}

var _ authz.PrincipalLoader = (*Service)(nil)
