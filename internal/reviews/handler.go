package reviews

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/shared"
)

// Handler manages review endpoints. Any authenticated user may reach them;
// per-resource ownership is enforced in the service.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/book/{bookID}", h.listByBook)
	r.Post("/book/{bookID}", h.create)
	r.Get("/{id}", h.show)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) listByBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "book_id must be an integer")
		return
	}
	q := r.URL.Query()
	filters, err := shared.ParseListFilters(q)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	// Bad user_id or out-of-range min_rating values are skipped, not errors.
	filters.UserID = shared.OptionalInt64(q, "user_id")
	filters.MinRating = shared.OptionalIntInRange(q, "min_rating", 1, 5)

	items, total, err := h.service.ListByBook(r.Context(), bookID, filters)
	if err != nil {
		h.logger.Error("list reviews", slog.Int64("book_id", bookID), slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching reviews")
		return
	}
	if items == nil {
		items = []Review{}
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	httpx.Success(w, http.StatusOK, "Reviews fetched successfully", map[string]any{"reviews": items}, map[string]any{
		"total":        page.Total,
		"pages":        page.TotalPages,
		"current_page": page.Page,
		"per_page":     page.PerPage,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "book_id must be an integer")
		return
	}
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}

	review, err := h.service.Create(r.Context(), principal, bookID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookNotFound):
			httpx.Fail(w, http.StatusNotFound, "Book not found")
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrDuplicate):
			httpx.Fail(w, http.StatusBadRequest, "you have already reviewed this book")
		default:
			h.logger.Error("create review", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error creating review")
		}
		return
	}
	httpx.Success(w, http.StatusCreated, "Review created successfully", map[string]any{"review": review}, nil)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, principal, ok := h.pathIDAndPrincipal(w, r)
	if !ok {
		return
	}
	review, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		h.respondAccessError(w, err, "get review", "Error fetching review")
		return
	}
	httpx.Success(w, http.StatusOK, "Review fetched successfully", map[string]any{"review": review}, nil)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, principal, ok := h.pathIDAndPrincipal(w, r)
	if !ok {
		return
	}
	var req reviewRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "review update failure")
		return
	}
	review, err := h.service.Update(r.Context(), principal, id, req.Rating, req.Comment)
	if err != nil {
		h.respondAccessError(w, err, "update review", "Error updating review")
		return
	}
	httpx.Success(w, http.StatusOK, "Review updated successfully", map[string]any{"review": review}, nil)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, principal, ok := h.pathIDAndPrincipal(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.respondAccessError(w, err, "delete review", "Error deleting review")
		return
	}
	httpx.Success(w, http.StatusNoContent, "Review deleted successfully", nil, nil)
}

func (h *Handler) respondAccessError(w http.ResponseWriter, err error, op, internalMsg string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "Review not found")
	case errors.Is(err, shared.ErrForbidden):
		httpx.Fail(w, http.StatusForbidden, httpx.ForbiddenMessage)
	case errors.Is(err, shared.ErrValidation):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, internalMsg)
	}
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return authz.Principal{}, false
	}
	return principal, true
}

func (h *Handler) pathIDAndPrincipal(w http.ResponseWriter, r *http.Request) (int64, authz.Principal, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id must be an integer")
		return 0, authz.Principal{}, false
	}
	principal, ok := h.principal(w, r)
	if !ok {
		return 0, authz.Principal{}, false
	}
	return id, principal, true
}
