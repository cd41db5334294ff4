package authors

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
	List(ctx context.Context, filters shared.ListFilters) ([]Author, int, error)
	Get(ctx context.Context, id int64) (Author, error)
	Create(ctx context.Context, author Author) (Author, error)
	Update(ctx context.Context, id int64, author Author) (Author, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// List applies search, sort and pagination in that fixed order.
func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Author, int, error) {
	where := ""
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE lower(name) LIKE $1`
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("authors: count: %w", err)
	}

	query := `SELECT id, name, COALESCE(bio, ''), created_at, updated_at FROM authors` + where +
		` ORDER BY ` + sortColumn(filters.SortBy, filters.SortOrder)

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("authors: list: %w", err)
	}
	defer rows.Close()

	var out []Author
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Bio, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Author, error) {
	var a Author
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(bio, ''), created_at, updated_at FROM authors WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Bio, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Author{}, shared.ErrNotFound
	}
	if err != nil {
		return Author{}, fmt.Errorf("authors: get: %w", err)
	}
	return a, nil
}

func (r *repository) Create(ctx context.Context, author Author) (Author, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO authors (name, bio, created_at, updated_at) VALUES ($1, $2, $3, $3)
		 RETURNING id, created_at, updated_at`,
		author.Name, author.Bio, now).Scan(&author.ID, &author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		return Author{}, fmt.Errorf("authors: create: %w", err)
	}
	return author, nil
}

func (r *repository) Update(ctx context.Context, id int64, author Author) (Author, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authors SET name = $1, bio = $2, updated_at = $3 WHERE id = $4`,
		author.Name, author.Bio, time.Now().UTC(), id)
	if err != nil {
		return Author{}, fmt.Errorf("authors: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Author{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("authors: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// sortColumn whitelists sortable fields; anything unknown falls back to the
// default order instead of erroring.
func sortColumn(sortBy, sortOrder string) string {
	dir := shared.SortDirection(sortOrder)
	switch sortBy {
	case "", "name":
		return "name " + dir
	case "created_at":
		return "created_at " + dir
	default:
		return "name ASC"
	}
}
