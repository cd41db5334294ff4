package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/catalog/books"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// ErrBookNotFound wraps shared.ErrNotFound when the parent book is missing.
var ErrBookNotFound = fmt.Errorf("book %w", shared.ErrNotFound)

// BookDirectory verifies the parent book exists.
type BookDirectory interface {
	Get(ctx context.Context, id int64) (books.Book, error)
}

// Service enforces review business rules: rating bounds, one review per
// user per book, and the ownership policies.
type Service struct {
	repo  Repository
	books BookDirectory
}

func NewService(repo Repository, bookDir BookDirectory) *Service {
	return &Service{repo: repo, books: bookDir}
}

func (s *Service) ListByBook(ctx context.Context, bookID int64, filters shared.ListFilters) ([]Review, int, error) {
	return s.repo.ListByBook(ctx, bookID, filters)
}

// Get fetches the review and then authorizes: owner or admin may read.
// The lookup runs first so a missing id is 404 for everyone.
func (s *Service) Get(ctx context.Context, principal authz.Principal, id int64) (Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if d := authz.OwnerOrAdmin(principal, review); !d.Allowed {
		return Review{}, shared.ErrForbidden
	}
	return review, nil
}

// Create attaches the review to the principal; the user id never comes
// from the payload.
func (s *Service) Create(ctx context.Context, principal authz.Principal, bookID int64, rating int, comment string) (Review, error) {
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}
	if _, err := s.books.Get(ctx, bookID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Review{}, ErrBookNotFound
		}
		return Review{}, err
	}
	return s.repo.Create(ctx, Review{
		Rating:  rating,
		Comment: comment,
		UserID:  principal.ID,
		BookID:  bookID,
	})
}

// Update allows only the owner; the admin override is deliberately absent
// here, unlike read and delete.
func (s *Service) Update(ctx context.Context, principal authz.Principal, id int64, rating int, comment string) (Review, error) {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return Review{}, err
	}
	if d := authz.OwnerOnly(principal, review); !d.Allowed {
		return Review{}, shared.ErrForbidden
	}
	if err := validateRating(rating); err != nil {
		return Review{}, err
	}
	return s.repo.Update(ctx, id, rating, comment)
}

// Delete allows the owner or an admin.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, id int64) error {
	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if d := authz.OwnerOrAdmin(principal, review); !d.Allowed {
		return shared.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrValidation)
	}
	return nil
}
