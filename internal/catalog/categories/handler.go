package categories

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Handler manages book category CRUD endpoints. Admin-gated by the router.
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

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := shared.ParseListFilters(r.URL.Query())
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching book categories")
		return
	}
	if items == nil {
		items = []Category{}
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	httpx.Success(w, http.StatusOK, "Book categories fetched successfully", map[string]any{"book_categories": items}, map[string]any{
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
	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Book category not found")
			return
		}
		h.logger.Error("get category", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching book category")
		return
	}
	httpx.Success(w, http.StatusOK, "Book category fetched successfully", map[string]any{"book_category": category}, nil)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}
	category, err := h.service.Create(r.Context(), Category{Name: req.Name, Description: req.Description})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrDuplicate):
			httpx.Fail(w, http.StatusBadRequest, "book category already exists")
		default:
			h.logger.Error("create category", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error creating book category")
		}
		return
	}
	httpx.Success(w, http.StatusCreated, "Book category created successfully", map[string]any{"book_category": category}, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "book category update failure")
		return
	}
	category, err := h.service.Update(r.Context(), id, Category{Name: req.Name, Description: req.Description})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "Book category not found")
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrDuplicate):
			httpx.Fail(w, http.StatusBadRequest, "book category already exists")
		default:
			h.logger.Error("update category", slog.Int64("id", id), slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error updating book category")
		}
		return
	}
	httpx.Success(w, http.StatusOK, "Book category updated successfully", map[string]any{"book_category": category}, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "Book category not found")
			return
		}
		h.logger.Error("delete category", slog.Int64("id", id), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error deleting book category")
		return
	}
	httpx.Success(w, http.StatusNoContent, "Book category deleted successfully", nil, nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}
