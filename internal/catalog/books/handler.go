package books

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Books accept multipart form bodies so a cover image can ride along.
const maxUploadBytes = 10 << 20

// Handler manages book CRUD endpoints. Admin-gated by the router.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := shared.ParseListFilters(q)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	filters.AuthorID = shared.OptionalInt64(q, "author_id")
	filters.CategoryID = shared.OptionalInt64(q, "category_id")
	filters.PublicationYear = shared.OptionalInt(q, "publication_year")

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list books", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching books")
		return
	}
	if items == nil {
		items = []Book{}
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	httpx.Success(w, http.StatusOK, "Books fetched successfully", map[string]any{"books": items}, map[string]any{
		"total":        page.Total,
		"pages":        page.TotalPages,
		"current_page": page.Page,
		"per_page":     page.PerPage,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Book not found")
			return
		}
		h.logger.Error("get book", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching book")
		return
	}
	httpx.Success(w, http.StatusOK, "Book fetched successfully", map[string]any{"book": book}, nil)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	book, cover, cleanup, ok := h.parseForm(w, r, Book{})
	if !ok {
		return
	}
	defer cleanup()

	created, err := h.service.Create(r.Context(), book, cover)
	if err != nil {
		h.respondWriteError(w, err, "create book", "Error creating book")
		return
	}
	httpx.Success(w, http.StatusCreated, "Book created successfully", map[string]any{"book": created}, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	existing, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Book not found")
			return
		}
		h.logger.Error("get book for update", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error updating book")
		return
	}

	// Partial update: absent form fields keep their current values.
	book, cover, cleanup, ok := h.parseForm(w, r, existing)
	if !ok {
		return
	}
	defer cleanup()

	updated, err := h.service.Update(r.Context(), id, book, cover)
	if err != nil {
		h.respondWriteError(w, err, "update book", "Error updating book")
		return
	}
	httpx.Success(w, http.StatusOK, "Book updated successfully", map[string]any{"book": updated}, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Book not found")
			return
		}
		h.logger.Error("delete book", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error deleting book")
		return
	}
	httpx.Success(w, http.StatusNoContent, "Book deleted successfully", nil, nil)
}

// parseForm reads the multipart body, overlaying provided fields on base.
// The returned cleanup closes the cover file when one was opened.
func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request, base Book) (Book, *CoverUpload, func(), bool) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return Book{}, nil, noop, false
	}

	book := base
	if v := r.PostFormValue("title"); v != "" {
		book.Title = v
	}
	if v := r.PostFormValue("description"); v != "" {
		book.Description = v
	}
	if v := r.PostFormValue("author_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "author_id must be an integer")
			return Book{}, nil, noop, false
		}
		book.AuthorID = id
	}
	if v := r.PostFormValue("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "category_id must be an integer")
			return Book{}, nil, noop, false
		}
		book.CategoryID = &id
	}
	if v := r.PostFormValue("publication_year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "publication_year must be an integer")
			return Book{}, nil, noop, false
		}
		book.PublicationYear = year
	}

	cover, file := coverFromForm(r)
	cleanup := noop
	if file != nil {
		cleanup = func() { _ = file.Close() }
	}
	return book, cover, cleanup, true
}

func coverFromForm(r *http.Request) (*CoverUpload, multipart.File) {
	file, header, err := r.FormFile("cover_image")
	if err != nil || header.Filename == "" {
		return nil, nil
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &CoverUpload{Filename: header.Filename, ContentType: contentType, Body: file}, file
}

func (h *Handler) respondWriteError(w http.ResponseWriter, err error, op, internalMsg string) {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		httpx.Fail(w, http.StatusNotFound, "Author not found")
	case errors.Is(err, ErrCategoryNotFound):
		httpx.Fail(w, http.StatusNotFound, "Book category not found")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Book not found")
	case errors.Is(err, shared.ErrValidation):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, internalMsg)
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}
