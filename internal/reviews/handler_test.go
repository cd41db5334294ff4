package reviews

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/authz"
)

func newTestRouter(t *testing.T) (http.Handler, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	svc := NewService(repo, stubBooks{known: map[int64]bool{1: true}})
	handler := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)

	r := chi.NewRouter()
	r.Route("/api/v1/reviews", handler.MountRoutes)
	return r, repo
}

// doAs serves the request in-process with the principal already in context,
// the way the auth middleware would leave it.
func doAs(t *testing.T, router http.Handler, p *authz.Principal, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if p != nil {
		req = req.WithContext(authz.ContextWithPrincipal(req.Context(), *p))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestListReviewsRejectsNonIntegerBookID(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doAs(t, router, &owner, http.MethodGet, "/api/v1/reviews/book/abc", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "book_id must be an integer", decode(t, rr)["error"])
}

func TestListReviewsBadPaginationIs400(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doAs(t, router, &owner, http.MethodGet, "/api/v1/reviews/book/1?page=abc", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Pagination parameters must be integers", decode(t, rr)["error"])
}

func TestListReviewsEnvelope(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doAs(t, router, &owner, http.MethodGet, "/api/v1/reviews/book/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decode(t, rr)
	require.Equal(t, "success", body["status"])
	require.EqualValues(t, 0, body["total"])
	require.EqualValues(t, 1, body["current_page"])
	require.EqualValues(t, 10, body["per_page"])
	require.NotNil(t, body["data"].(map[string]any)["reviews"], "empty list, not null")
}

func TestCreateReviewEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doAs(t, router, &owner, http.MethodPost, "/api/v1/reviews/book/1", map[string]any{
		"rating": 4, "comment": "solid",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	review := decode(t, rr)["data"].(map[string]any)["review"].(map[string]any)
	require.EqualValues(t, owner.ID, review["user_id"], "user id comes from the principal")

	// Second review by the same user for the same book.
	rr = doAs(t, router, &owner, http.MethodPost, "/api/v1/reviews/book/1", map[string]any{
		"rating": 5,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown parent book.
	rr = doAs(t, router, &owner, http.MethodPost, "/api/v1/reviews/book/99", map[string]any{
		"rating": 4,
	})
	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "Book not found", decode(t, rr)["error"])
}

func TestUpdateReviewForbiddenForNonOwner(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doAs(t, router, &owner, http.MethodPost, "/api/v1/reviews/book/1", map[string]any{"rating": 4})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["data"].(map[string]any)["review"].(map[string]any)["id"].(float64)

	path := "/api/v1/reviews/" + strconv.FormatInt(int64(id), 10)

	rr = doAs(t, router, &admin, http.MethodPut, path, map[string]any{"rating": 1})
	require.Equal(t, http.StatusForbidden, rr.Code, "even admins cannot edit someone else's review")
	require.Equal(t, "Unauthorized access", decode(t, rr)["error"])

	rr = doAs(t, router, &owner, http.MethodPut, path, map[string]any{"rating": 1})
	require.Equal(t, http.StatusOK, rr.Code)

	// A missing review stays 404 regardless of who asks.
	rr = doAs(t, router, &stranger, http.MethodPut, "/api/v1/reviews/777", map[string]any{"rating": 1})
	require.Equal(t, http.StatusNotFound, rr.Code)
}
