package authors

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Handler manages author CRUD endpoints. All routes are admin-gated by the
// router.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers author routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type authorRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := shared.ParseListFilters(r.URL.Query())
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list authors", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching authors")
		return
	}
	if items == nil {
		items = []Author{}
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	httpx.Success(w, http.StatusOK, "Authors fetched successfully", map[string]any{"authors": items}, map[string]any{
		"total":        page.Total,
		"pages":        page.TotalPages,
		"current_page": page.Page,
		"per_page":     page.PerPage,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	author, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Author not found")
			return
		}
		h.logger.Error("get author", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching author")
		return
	}
	httpx.Success(w, http.StatusOK, "Author fetched successfully", map[string]any{"author": author}, nil)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req authorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}
	author, err := h.service.Create(r.Context(), Author{Name: req.Name, Bio: req.Bio})
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			httpx.Fail(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("create author", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error creating author")
		return
	}
	httpx.Success(w, http.StatusCreated, "Author created successfully", map[string]any{"author": author}, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req authorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "author update failure")
		return
	}
	author, err := h.service.Update(r.Context(), id, Author{Name: req.Name, Bio: req.Bio})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "Author not found")
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("update author", slog.Int64("id", id), slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error updating author")
		}
		return
	}
	httpx.Success(w, http.StatusOK, "Author updated successfully", map[string]any{"author": author}, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Author not found")
			return
		}
		h.logger.Error("delete author", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error deleting author")
		return
	}
	httpx.Success(w, http.StatusNoContent, "Author deleted successfully", nil, nil)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}
