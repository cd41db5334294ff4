package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/platform/httpx"
	"github.com/bookhaven/bookhaven/internal/shared"
	"github.com/bookhaven/bookhaven/internal/token"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *token.Service
	authn     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *token.Service, authn authz.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		authn:     authn,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/refresh", h.handleRefresh)
	r.Delete("/revoke_refresh", h.handleRevokeRefresh)
	r.Group(func(r chi.Router) {
		r.Use(h.authn.Authenticate)
		r.Delete("/logout", h.handleLogout)
		r.Delete("/revoke_access", h.handleRevokeAccess)
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.logger.Warn("register validation failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, strings.ToLower(req.Email), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Fail(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, shared.ErrDuplicate):
			// Duplicate email/username is reported as 400, not 409.
			httpx.Fail(w, http.StatusBadRequest, "username or email already registered")
		default:
			h.logger.Error("register user", slog.Any("error", err))
			httpx.Fail(w, http.StatusInternalServerError, "Error registering user")
		}
		return
	}

	httpx.Success(w, http.StatusCreated, "User registered successfully", map[string]any{"user": user.Public()}, nil)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "check that all required fields are present")
		return
	}

	user, err := h.service.Authenticate(r.Context(), strings.ToLower(req.Email), req.Password)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	access, err := h.tokens.IssueAccess(user.ID)
	if err != nil {
		h.logger.Error("issue access token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error logging in")
		return
	}
	refresh, err := h.tokens.IssueRefresh(user.ID)
	if err != nil {
		h.logger.Error("issue refresh token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	httpx.Success(w, http.StatusOK, "Login successful", map[string]any{
		"access_token":  access,
		"refresh_token": refresh,
		"user":          user.Public(),
	}, nil)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.verifyBearer(w, r, token.KindRefresh)
	if !ok {
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	access, err := h.tokens.IssueAccess(userID)
	if err != nil {
		h.logger.Error("refresh access token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error refreshing token")
		return
	}
	httpx.Success(w, http.StatusOK, "Token refreshed", map[string]any{"access_token": access}, nil)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.revokeCurrent(w, r, "Logout successful")
}

func (h *Handler) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	h.revokeCurrent(w, r, "Access token revoked")
}

func (h *Handler) handleRevokeRefresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.verifyBearer(w, r, token.KindRefresh)
	if !ok {
		return
	}
	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		h.logger.Error("revoke refresh token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error revoking token")
		return
	}
	httpx.Success(w, http.StatusOK, "Refresh token revoked", nil, nil)
}

// revokeCurrent inserts the presented access token's jti into the
// revocation set.
func (h *Handler) revokeCurrent(w http.ResponseWriter, r *http.Request, message string) {
	claims, ok := authz.ClaimsFromContext(r.Context())
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if err := h.tokens.Revoke(r.Context(), claims); err != nil {
		h.logger.Error("revoke access token", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "Error revoking token")
		return
	}
	httpx.Success(w, http.StatusOK, message, nil, nil)
}

func (h *Handler) verifyBearer(w http.ResponseWriter, r *http.Request, kind string) (*token.Claims, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return nil, false
	}
	claims, err := h.tokens.Verify(r.Context(), strings.TrimSpace(header[len(prefix):]), kind)
	if err != nil {
		httpx.Fail(w, http.StatusUnauthorized, "missing or invalid token")
		return nil, false
	}
	return claims, true
}
