// Package seed populates a fresh database with roles, an administrator
// account and a small sample catalog.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/bookhaven/internal/authz"
)

type Seeder struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(pool *pgxpool.Pool, logger *slog.Logger) *Seeder {
	return &Seeder{pool: pool, logger: logger}
}

// Roles inserts the closed role set. Existing rows are kept.
func (s *Seeder) Roles(ctx context.Context) error {
	for _, name := range []string{authz.RoleAdmin, authz.RoleUser} {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed: role %s: %w", name, err)
		}
	}
	s.logger.Info("roles seeded")
	return nil
}

// AdminUser creates an administrator account. Roles must be seeded first.
func (s *Seeder) AdminUser(ctx context.Context, username, email, password string) error {
	var roleID int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, authz.RoleAdmin).Scan(&roleID)
	if err != nil {
		return fmt.Errorf("seed: admin role not found, seed roles first: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed: hash password: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO users (username, email, password_hash, role_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now())`,
		username, email, string(hash), roleID)
	if err != nil {
		return fmt.Errorf("seed: create admin user: %w", err)
	}
	s.logger.Info("admin user created", slog.String("username", username))
	return nil
}

// Catalog inserts a few authors, categories and books for local development.
func (s *Seeder) Catalog(ctx context.Context) error {
	authors := []struct{ name, bio string }{
		{"Ursula K. Le Guin", "American author of speculative fiction."},
		{"Gabriel García Márquez", "Colombian novelist, pioneer of magical realism."},
		{"James Baldwin", "American essayist and novelist."},
	}
	categories := []struct{ name, description string }{
		{"Science Fiction", "Speculative futures and imagined worlds."},
		{"Literary Fiction", "Character-driven narrative fiction."},
		{"Essays", "Non-fiction collections."},
	}
	books := []struct {
		title, description, author, category string
		year                                 int
	}{
		{"The Dispossessed", "An ambiguous utopia.", "Ursula K. Le Guin", "Science Fiction", 1974},
		{"One Hundred Years of Solitude", "The Buendía family saga.", "Gabriel García Márquez", "Literary Fiction", 1967},
		{"Notes of a Native Son", "Essays on race and identity.", "James Baldwin", "Essays", 1955},
	}

	for _, a := range authors {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO authors (name, bio, created_at, updated_at)
			 SELECT $1, $2, now(), now()
			 WHERE NOT EXISTS (SELECT 1 FROM authors WHERE name = $1)`, a.name, a.bio); err != nil {
			return fmt.Errorf("seed: author %s: %w", a.name, err)
		}
	}
	for _, c := range categories {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO book_categories (name, description, created_at, updated_at)
			 VALUES ($1, $2, now(), now()) ON CONFLICT (name) DO NOTHING`, c.name, c.description); err != nil {
			return fmt.Errorf("seed: category %s: %w", c.name, err)
		}
	}
	for _, b := range books {
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO books (title, description, author_id, category_id, publication_year, created_at, updated_at)
			 SELECT $1, $2, a.id, c.id, $5, now(), now()
			 FROM authors a, book_categories c
			 WHERE a.name = $3 AND c.name = $4
			   AND NOT EXISTS (SELECT 1 FROM books WHERE title = $1)`,
			b.title, b.description, b.author, b.category, b.year); err != nil {
			return fmt.Errorf("seed: book %s: %w", b.title, err)
		}
	}
	s.logger.Info("sample catalog seeded")
	return nil
}
