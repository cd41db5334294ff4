package users

import (
	"context"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Service exposes account lookups. Listing is admin-only at the route level;
// single-user reads are owner-or-admin, decided here.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	return s.repo.List(ctx, filters)
}

// Get fetches before authorizing so a missing user reads as 404 to everyone.
func (s *Service) Get(ctx context.Context, principal authz.Principal, id int64) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if d := authz.OwnerOrAdmin(principal, user); !d.Allowed {
		return User{}, shared.ErrForbidden
	}
	return user, nil
}
