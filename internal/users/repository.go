package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookhaven/bookhaven/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]User, int, error)
	Get(ctx context.Context, id int64) (User, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `u.id, u.username, u.email, r.name, u.created_at, u.updated_at`
const userJoins = ` FROM users u JOIN roles r ON r.id = u.role_id`

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]User, int, error) {
	where := ""
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE lower(u.username) LIKE $1 OR lower(u.email) LIKE $1`
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+userJoins+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("users: count: %w", err)
	}

	query := `SELECT ` + userColumns + userJoins + where +
		` ORDER BY ` + sortColumn(filters.SortBy, filters.SortOrder)

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT `+userColumns+userJoins+` WHERE u.id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("users: get: %w", err)
	}
	return u, nil
}

func sortColumn(sortBy, sortOrder string) string {
	dir := shared.SortDirection(sortOrder)
	switch sortBy {
	case "", "username":
		return "u.username " + dir
	case "email":
		return "u.email " + dir
	case "created_at":
		return "u.created_at " + dir
	default:
		return "u.username ASC"
	}
}
