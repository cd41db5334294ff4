package users

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

// Handler exposes account listing and lookup. Listing is admin-only; a
// single user is visible to themselves and to admins.
type Handler struct {
	logger  *slog.Logger
	service *Service
	authn   authz.Middleware
}

func NewHandler(logger *slog.Logger, service *Service, authn authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, authn: authn}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.authn.RequireRoles(authz.RoleAdmin)).Get("/", h.list)
	r.Get("/{id}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filters, err := shared.ParseListFilters(r.URL.Query())
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	if items == nil {
		items = []User{}
	}

	page := shared.NewPagination(filters.Page, filters.PerPage, total)
	httpx.Success(w, http.StatusOK, "Users fetched successfully", map[string]any{"users": items}, map[string]any{
		"total":        page.Total,
		"pages":        page.TotalPages,
		"current_page": page.Page,
		"per_page":     page.PerPage,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "id must be an integer")
		return
	}
	principal, ok := authz.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	user, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Fail(w, http.StatusNotFound, "User not found")
		case errors.Is(err, shared.ErrForbidden):
			httpx.Fail(w, http.StatusForbidden, httpx.ForbiddenMessage)
		default:
			h.logger.Error("get user", slog.Int64("id", id), slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error fetching user")
		}
		return
	}
	httpx.Success(w, http.StatusOK, "User fetched successfully", map[string]any{"user": user}, nil)
}
