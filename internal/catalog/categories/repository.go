package categories

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
	List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, id int64, category Category) (Category, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Category, int, error) {
	where := ""
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE lower(name) LIKE $1`
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM book_categories`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("categories: count: %w", err)
	}

	query := `SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM book_categories` + where +
		` ORDER BY ` + sortColumn(filters.SortBy, filters.SortOrder)

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("categories: list: %w", err)
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at, updated_at FROM book_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	if err != nil {
		return Category{}, fmt.Errorf("categories: get: %w", err)
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO book_categories (name, description, created_at, updated_at) VALUES ($1, $2, $3, $3)
		 RETURNING id, created_at, updated_at`,
		category.Name, category.Description, now).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, shared.ErrDuplicate
		}
		return Category{}, fmt.Errorf("categories: create: %w", err)
	}
	return category, nil
}

func (r *repository) Update(ctx context.Context, id int64, category Category) (Category, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE book_categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		category.Name, category.Description, time.Now().UTC(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return Category{}, shared.ErrDuplicate
		}
		return Category{}, fmt.Errorf("categories: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Category{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM book_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("categories: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

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
