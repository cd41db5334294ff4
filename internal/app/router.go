package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bookhaven/bookhaven/internal/auth"
	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/catalog/authors"
	"github.com/bookhaven/bookhaven/internal/catalog/books"
	"github.com/bookhaven/bookhaven/internal/catalog/categories"
	"github.com/bookhaven/bookhaven/internal/observability"
	"github.com/bookhaven/bookhaven/internal/reviews"
	"github.com/bookhaven/bookhaven/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthorsHandler    *authors.Handler
	BooksHandler      *books.Handler
	CategoriesHandler *categories.Handler
	ReviewsHandler    *reviews.Handler
	UsersHandler      *users.Handler
	Authn             authz.Middleware
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(params.Authn.Authenticate)

		adminOnly := params.Authn.RequireRoles(authz.RoleAdmin)
		r.With(adminOnly).Route("/authors", params.AuthorsHandler.MountRoutes)
		r.With(adminOnly).Route("/books", params.BooksHandler.MountRoutes)
		r.With(adminOnly).Route("/book_categories", params.CategoriesHandler.MountRoutes)

		r.Route("/reviews", params.ReviewsHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
