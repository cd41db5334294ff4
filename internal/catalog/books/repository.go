package books

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/bookhaven/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Book, int, error)
	Get(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, book Book) (Book, error)
	Update(ctx context.Context, id int64, book Book) (Book, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const bookColumns = `b.id, b.title, COALESCE(b.description, ''), b.author_id, COALESCE(a.name, ''),
	b.category_id, COALESCE(c.name, ''), COALESCE(b.publication_year, 0),
	COALESCE(b.cover_image_url, ''), COALESCE(b.cover_image_key, ''), b.created_at, b.updated_at`

const bookJoins = ` FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
	LEFT JOIN book_categories c ON c.id = b.category_id`

// BuildListQuery composes the filter contract in fixed order: search, then
// equality/threshold filters, then sort. Pagination is appended by List.
// Exported so the ordering contract can be exercised without a database.
func BuildListQuery(filters shared.ListFilters) (where string, orderBy string, args []any) {
	var conds []string

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		args = append(args, pattern)
		n := strconv.Itoa(len(args))
		conds = append(conds, `(lower(b.title) LIKE $`+n+` OR lower(a.name) LIKE $`+n+` OR lower(c.name) LIKE $`+n+`)`)
	}
	if filters.AuthorID != nil {
		args = append(args, *filters.AuthorID)
		conds = append(conds, `b.author_id = $`+strconv.Itoa(len(args)))
	}
	if filters.CategoryID != nil {
		args = append(args, *filters.CategoryID)
		conds = append(conds, `b.category_id = $`+strconv.Itoa(len(args)))
	}
	if filters.PublicationYear != nil {
		// "on/after" semantics, not exact match.
		args = append(args, *filters.PublicationYear)
		conds = append(conds, `b.publication_year >= $`+strconv.Itoa(len(args)))
	}

	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}
	orderBy = ` ORDER BY ` + sortColumn(filters.SortBy, filters.SortOrder)
	return where, orderBy, args
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Book, int, error) {
	where, orderBy, args := BuildListQuery(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+bookJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("books: count: %w", err)
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query := `SELECT ` + bookColumns + bookJoins + where + orderBy +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("books: list: %w", err)
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.AuthorID, &b.AuthorName,
		&b.CategoryID, &b.CategoryName, &b.PublicationYear,
		&b.CoverImageURL, &b.CoverImageKey, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *repository) Get(ctx context.Context, id int64) (Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx, `SELECT `+bookColumns+bookJoins+` WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, shared.ErrNotFound
	}
	if err != nil {
		return Book{}, fmt.Errorf("books: get: %w", err)
	}
	return b, nil
}

func (r *repository) Create(ctx context.Context, book Book) (Book, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO books (title, description, author_id, category_id, publication_year,
			cover_image_url, cover_image_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''), NULLIF($7, ''), $8, $8)
		 RETURNING id`,
		book.Title, book.Description, book.AuthorID, book.CategoryID, book.PublicationYear,
		book.CoverImageURL, book.CoverImageKey, now).Scan(&id)
	if err != nil {
		return Book{}, fmt.Errorf("books: create: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *repository) Update(ctx context.Context, id int64, book Book) (Book, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET title = $1, description = $2, author_id = $3, category_id = $4,
			publication_year = NULLIF($5, 0), cover_image_url = NULLIF($6, ''),
			cover_image_key = NULLIF($7, ''), updated_at = $8
		 WHERE id = $9`,
		book.Title, book.Description, book.AuthorID, book.CategoryID, book.PublicationYear,
		book.CoverImageURL, book.CoverImageKey, time.Now().UTC(), id)
	if err != nil {
		return Book{}, fmt.Errorf("books: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Book{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("books: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func sortColumn(sortBy, sortOrder string) string {
	dir := shared.SortDirection(sortOrder)
	switch sortBy {
	case "", "title":
		return "b.title " + dir
	case "publication_year":
		return "b.publication_year " + dir
	case "created_at":
		return "b.created_at " + dir
	default:
		// Unknown sort fields are ignored, not an error.
		return "b.title ASC"
	}
}
