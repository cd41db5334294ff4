package books

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bookhaven/bookhaven/internal/catalog/authors"
	"github.com/bookhaven/bookhaven/internal/catalog/categories"
	"github.com/bookhaven/bookhaven/internal/shared"
	"github.com/bookhaven/bookhaven/internal/storage"
	"github.com/bookhaven/bookhaven/jobs"
)

// Reference failures wrap shared.ErrNotFound so the boundary still maps
// them to 404, with a message naming the missing side.
var (
	ErrAuthorNotFound   = fmt.Errorf("author %w", shared.ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", shared.ErrNotFound)
)

// AuthorDirectory verifies author references.
type AuthorDirectory interface {
	Get(ctx context.Context, id int64) (authors.Author, error)
}

// CategoryDirectory verifies category references.
type CategoryDirectory interface {
	Get(ctx context.Context, id int64) (categories.Category, error)
}

// CoverUpload carries an incoming cover image file.
type CoverUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Service handles book business logic including cover image lifecycle.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	authors    AuthorDirectory
	categories CategoryDirectory
	store      storage.ObjectStore
	enqueuer   jobs.Enqueuer
}

// NewService constructs a Service. store and enqueuer may be nil when the
// deployment has no object storage configured; cover uploads are then
// skipped.
func NewService(logger *slog.Logger, repo Repository, authorDir AuthorDirectory, categoryDir CategoryDirectory, store storage.ObjectStore, enqueuer jobs.Enqueuer) *Service {
	return &Service{
		logger:     logger,
		repo:       repo,
		authors:    authorDir,
		categories: categoryDir,
		store:      store,
		enqueuer:   enqueuer,
	}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Book, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create validates references, inserts the book, then attaches the cover
// image if one was supplied. An upload failure is logged and the book is
// kept without a cover rather than failing the request.
func (s *Service) Create(ctx context.Context, book Book, cover *CoverUpload) (Book, error) {
	if err := s.validate(ctx, book); err != nil {
		return Book{}, err
	}
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return Book{}, err
	}
	if cover != nil {
		if url, key, ok := s.uploadCover(ctx, cover); ok {
			created.CoverImageURL = url
			created.CoverImageKey = key
			created, err = s.repo.Update(ctx, created.ID, created)
			if err != nil {
				return Book{}, fmt.Errorf("books: attach cover: %w", err)
			}
		}
	}
	return created, nil
}

// Update overlays the changed fields, swaps the cover image if a new one
// came in and schedules cleanup of the replaced object.
func (s *Service) Update(ctx context.Context, id int64, book Book, cover *CoverUpload) (Book, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if err := s.validate(ctx, book); err != nil {
		return Book{}, err
	}

	book.CoverImageURL = existing.CoverImageURL
	book.CoverImageKey = existing.CoverImageKey
	if cover != nil {
		if url, key, ok := s.uploadCover(ctx, cover); ok {
			if existing.CoverImageKey != "" {
				s.scheduleCoverCleanup(existing.CoverImageKey)
			}
			book.CoverImageURL = url
			book.CoverImageKey = key
		}
	}
	return s.repo.Update(ctx, id, book)
}

// Delete removes the book and schedules removal of its cover image.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if existing.CoverImageKey != "" {
		s.scheduleCoverCleanup(existing.CoverImageKey)
	}
	return nil
}

func (s *Service) validate(ctx context.Context, book Book) error {
	if strings.TrimSpace(book.Title) == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if book.AuthorID <= 0 {
		return fmt.Errorf("%w: author_id is required", shared.ErrValidation)
	}
	if _, err := s.authors.Get(ctx, book.AuthorID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrAuthorNotFound
		}
		return err
	}
	if book.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *book.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

func (s *Service) uploadCover(ctx context.Context, cover *CoverUpload) (url, key string, ok bool) {
	if s.store == nil {
		return "", "", false
	}
	url, key, err := s.store.Upload(ctx, cover.Filename, cover.ContentType, cover.Body)
	if err != nil {
		s.logger.Error("cover upload failed", slog.String("filename", cover.Filename), slog.Any("error", err))
		return "", "", false
	}
	return url, key, true
}

func (s *Service) scheduleCoverCleanup(key string) {
	if s.enqueuer == nil {
		return
	}
	task, err := jobs.NewCoverCleanupTask(key)
	if err != nil {
		s.logger.Warn("build cover cleanup task", slog.Any("error", err))
		return
	}
	if _, err := s.enqueuer.Enqueue(task); err != nil {
		s.logger.Warn("enqueue cover cleanup", slog.String("key", key), slog.Any("error", err))
	}
}
