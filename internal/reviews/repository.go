package reviews

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/bookhaven/internal/shared"
)

type Repository interface {
	ListByBook(ctx context.Context, bookID int64, filters shared.ListFilters) ([]Review, int, error)
	Get(ctx context.Context, id int64) (Review, error)
	Create(ctx context.Context, review Review) (Review, error)
	Update(ctx context.Context, id int64, rating int, comment string) (Review, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const reviewColumns = `rv.id, rv.rating, COALESCE(rv.comment, ''), rv.user_id, COALESCE(u.username, ''),
	rv.book_id, COALESCE(b.title, ''), rv.created_at, rv.updated_at`

const reviewJoins = ` FROM reviews rv
	LEFT JOIN users u ON u.id = rv.user_id
	LEFT JOIN books b ON b.id = rv.book_id`

// BuildListQuery composes the review filter contract. Reviews have no text
// search; user_id and min_rating arrive pre-validated (bad values were
// already skipped during parsing).
func BuildListQuery(bookID int64, filters shared.ListFilters) (where, orderBy string, args []any) {
	args = append(args, bookID)
	conds := []string{`rv.book_id = $1`}

	if filters.UserID != nil {
		args = append(args, *filters.UserID)
		conds = append(conds, `rv.user_id = $`+strconv.Itoa(len(args)))
	}
	if filters.MinRating != nil {
		args = append(args, *filters.MinRating)
		conds = append(conds, `rv.rating >= $`+strconv.Itoa(len(args)))
	}

	where = ` WHERE ` + strings.Join(conds, " AND ")
	orderBy = ` ORDER BY ` + sortColumn(filters.SortBy, filters.SortOrder)
	return where, orderBy, args
}

func (r *repository) ListByBook(ctx context.Context, bookID int64, filters shared.ListFilters) ([]Review, int, error) {
	where, orderBy, args := BuildListQuery(bookID, filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+reviewJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("reviews: count: %w", err)
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query := `SELECT ` + reviewColumns + reviewJoins + where + orderBy +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("reviews: list: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rv)
	}
	return out, total, rows.Err()
}

func scanReview(row pgx.Row) (Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.Rating, &rv.Comment, &rv.UserID, &rv.Username,
		&rv.BookID, &rv.BookTitle, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func (r *repository) Get(ctx context.Context, id int64) (Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+reviewJoins+` WHERE rv.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, shared.ErrNotFound
	}
	if err != nil {
		return Review{}, fmt.Errorf("reviews: get: %w", err)
	}
	return rv, nil
}

func (r *repository) Create(ctx context.Context, review Review) (Review, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (rating, comment, user_id, book_id, created_at, updated_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $5) RETURNING id`,
		review.Rating, review.Comment, review.UserID, review.BookID, now).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Review{}, shared.ErrDuplicate
		}
		return Review{}, fmt.Errorf("reviews: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, rating int, comment string) (Review, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET rating = $1, comment = NULLIF($2, ''), updated_at = $3 WHERE id = $4`,
		rating, comment, time.Now().UTC(), id)
	if err != nil {
		return Review{}, fmt.Errorf("reviews: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Review{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("reviews: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortColumn(sortBy, sortOrder string) string {
	// Reviews default to newest first; an explicit sort_order other than
	// "desc" means ascending.
	dir := "DESC"
	if sortOrder != "" && sortOrder != shared.SortDesc {
		dir = "ASC"
	}
	switch sortBy {
	case "", "created_at":
		return "rv.created_at " + dir
	case "rating":
		return "rv.rating " + dir
	default:
		return "rv.created_at DESC"
	}
}
