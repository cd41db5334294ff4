package authors

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookhaven/bookhaven/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Author, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, author Author) (Author, error) {
	if err := validate(author); err != nil {
		return Author{}, err
	}
	return s.repo.Create(ctx, author)
}

func (s *Service) Update(ctx context.Context, id int64, author Author) (Author, error) {
	if err := validate(author); err != nil {
		return Author{}, err
	}
	return s.repo.Update(ctx, id, author)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func validate(a Author) error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: author name is required", shared.ErrValidation)
	}
	return nil
}
