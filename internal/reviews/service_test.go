package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/catalog/books"
	"github.com/bookhaven/bookhaven/internal/shared"
)

type stubRepo struct {
	reviews map[int64]Review
	nextID  int64
	deleted []int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{reviews: map[int64]Review{}, nextID: 1}
}

func (r *stubRepo) ListByBook(ctx context.Context, bookID int64, filters shared.ListFilters) ([]Review, int, error) {
	var out []Review
	for _, rv := range r.reviews {
		if rv.BookID == bookID {
			out = append(out, rv)
		}
	}
	return out, len(out), nil
}

func (r *stubRepo) Get(ctx context.Context, id int64) (Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return Review{}, shared.ErrNotFound
	}
	return rv, nil
}

func (r *stubRepo) Create(ctx context.Context, review Review) (Review, error) {
	for _, existing := range r.reviews {
		if existing.BookID == review.BookID && existing.UserID == review.UserID {
			return Review{}, shared.ErrDuplicate
		}
	}
	review.ID = r.nextID
	r.nextID++
	r.reviews[review.ID] = review
	return review, nil
}

func (r *stubRepo) Update(ctx context.Context, id int64, rating int, comment string) (Review, error) {
	rv, ok := r.reviews[id]
	if !ok {
		return Review{}, shared.ErrNotFound
	}
	rv.Rating = rating
	rv.Comment = comment
	r.reviews[id] = rv
	return rv, nil
}

func (r *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.reviews[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reviews, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubBooks struct{ known map[int64]bool }

func (b stubBooks) Get(ctx context.Context, id int64) (books.Book, error) {
	if !b.known[id] {
		return books.Book{}, shared.ErrNotFound
	}
	return books.Book{ID: id}, nil
}

var (
	owner    = authz.Principal{ID: 10, Role: authz.RoleUser}
	stranger = authz.Principal{ID: 20, Role: authz.RoleUser}
	admin    = authz.Principal{ID: 30, Role: authz.RoleAdmin}
)

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, stubBooks{known: map[int64]bool{1: true}}), repo
}

func TestCreateReview(t *testing.T) {
	svc, _ := newTestService(t)

	review, err := svc.Create(context.Background(), owner, 1, 4, "solid")
	require.NoError(t, err)
	require.Equal(t, owner.ID, review.UserID, "review is attached to the principal")

	_, err = svc.Create(context.Background(), owner, 1, 5, "again")
	require.ErrorIs(t, err, shared.ErrDuplicate, "one review per user per book")

	_, err = svc.Create(context.Background(), owner, 99, 4, "ghost book")
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Create(context.Background(), stranger, 1, 0, "")
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.Create(context.Background(), stranger, 1, 6, "")
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestGetReviewOwnership(t *testing.T) {
	svc, _ := newTestService(t)
	review, err := svc.Create(context.Background(), owner, 1, 4, "solid")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), owner, review.ID)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), admin, review.ID)
	require.NoError(t, err, "admins may read any review")
	_, err = svc.Get(context.Background(), stranger, review.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	svc, _ := newTestService(t)
	review, err := svc.Create(context.Background(), owner, 1, 4, "solid")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), owner, review.ID, 2, "changed my mind")
	require.NoError(t, err)
	require.Equal(t, 2, updated.Rating)

	// Unlike read and delete, admins cannot update someone else's review.
	_, err = svc.Update(context.Background(), admin, review.ID, 5, "nope")
	require.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.Update(context.Background(), stranger, review.ID, 5, "nope")
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUpdateMissingReviewIs404EvenForStrangers(t *testing.T) {
	svc, _ := newTestService(t)

	// Lookup runs before authorization: a missing review is not-found for
	// everyone, never forbidden.
	_, err := svc.Update(context.Background(), stranger, 777, 3, "")
	require.ErrorIs(t, err, shared.ErrNotFound)
	require.NotErrorIs(t, err, shared.ErrForbidden)
}

func TestDeleteReview(t *testing.T) {
	svc, repo := newTestService(t)
	review, err := svc.Create(context.Background(), owner, 1, 4, "solid")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), stranger, review.ID), shared.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), admin, review.ID), "admins may delete any review")
	require.Contains(t, repo.deleted, review.ID)

	require.ErrorIs(t, svc.Delete(context.Background(), owner, review.ID), shared.ErrNotFound)
}
