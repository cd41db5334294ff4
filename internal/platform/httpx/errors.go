package httpx

import (
	"errors"
	"net/http"

	"github.com/bookhaven/bookhaven/internal/shared"
)

// ForbiddenMessage is the only text a failed authorization check ever leaks.
const ForbiddenMessage = "Unauthorized access"

// RespondError maps domain errors to the uniform error envelope. No raw
// internal error ever reaches the client; callers log the cause themselves.
func RespondError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		msg := fallback
		if msg == "" {
			msg = "could not be found"
		}
		Fail(w, http.StatusNotFound, msg)
	case errors.Is(err, shared.ErrForbidden):
		Fail(w, http.StatusForbidden, ForbiddenMessage)
	case errors.Is(err, shared.ErrUnauthorized):
		Fail(w, http.StatusUnauthorized, "missing or invalid token")
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidCredentials), errors.Is(err, shared.ErrBadPageParams):
		msg := err.Error()
		if fallback != "" {
			msg = fallback
		}
		Fail(w, http.StatusBadRequest, msg)
	default:
		msg := fallback
		if msg == "" {
			msg = "internal error"
		}
		Fail(w, http.StatusInternalServerError, msg)
	}
}
