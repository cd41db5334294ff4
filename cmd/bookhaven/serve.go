package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bookhaven/bookhaven/internal/app"
	"github.com/bookhaven/bookhaven/internal/auth"
	"github.com/bookhaven/bookhaven/internal/authz"
	"github.com/bookhaven/bookhaven/internal/catalog/authors"
	"github.com/bookhaven/bookhaven/internal/catalog/books"
	"github.com/bookhaven/bookhaven/internal/catalog/categories"
	"github.com/bookhaven/bookhaven/internal/observability"
	"github.com/bookhaven/bookhaven/internal/platform/cache"
	"github.com/bookhaven/bookhaven/internal/platform/db"
	"github.com/bookhaven/bookhaven/internal/reviews"
	"github.com/bookhaven/bookhaven/internal/roles"
	"github.com/bookhaven/bookhaven/internal/storage"
	"github.com/bookhaven/bookhaven/internal/token"
	"github.com/bookhaven/bookhaven/internal/users"
	"github.com/bookhaven/bookhaven/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.InTestMode() {
			slog.Default().Info("test mode detected, skipping runtime startup")
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		logger := app.NewLogger(cfg)

		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		// Redis backs the revocation set; without it revoked tokens would
		// verify, so a dead Redis is fatal here.
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()

		revoked := token.NewRevocationSet(redisClient)
		tokens := token.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, revoked)

		rolesRepo := roles.NewRepository(pool)
		authRepo := auth.NewRepository(pool)
		authService := auth.NewService(authRepo, rolesRepo)

		authn := authz.Middleware{Tokens: tokens, Loader: authService, Logger: logger}
		authHandler := auth.NewHandler(logger, authService, tokens, authn)

		var store storage.ObjectStore
		if cfg.S3Bucket != "" {
			s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
				Bucket:          cfg.S3Bucket,
				Region:          cfg.S3Region,
				AccessKeyID:     cfg.S3AccessKeyID,
				SecretAccessKey: cfg.S3SecretAccessKey,
				Endpoint:        cfg.S3Endpoint,
			})
			if err != nil {
				return err
			}
			store = s3Store
		} else {
			logger.Warn("no S3 bucket configured, cover uploads disabled")
		}

		asynqClient := jobs.NewClient(cfg.RedisAddr)
		defer func() {
			if err := asynqClient.Close(); err != nil {
				logger.Warn("asynq close", slog.Any("error", err))
			}
		}()

		authorsRepo := authors.NewRepository(pool)
		authorsHandler := authors.NewHandler(logger, authors.NewService(authorsRepo))

		categoriesRepo := categories.NewRepository(pool)
		categoriesHandler := categories.NewHandler(logger, categories.NewService(categoriesRepo))

		booksRepo := books.NewRepository(pool)
		booksService := books.NewService(logger, booksRepo, authorsRepo, categoriesRepo, store, asynqClient)
		booksHandler := books.NewHandler(logger, booksService)

		reviewsRepo := reviews.NewRepository(pool)
		reviewsHandler := reviews.NewHandler(logger, reviews.NewService(reviewsRepo, booksRepo))

		usersRepo := users.NewRepository(pool)
		usersHandler := users.NewHandler(logger, users.NewService(usersRepo), authn)

		metrics := observability.NewMetrics()

		router := app.NewRouter(app.RouterParams{
			Logger:            logger,
			Config:            cfg,
			AuthHandler:       authHandler,
			AuthorsHandler:    authorsHandler,
			BooksHandler:      booksHandler,
			CategoriesHandler: categoriesHandler,
			ReviewsHandler:    reviewsHandler,
			UsersHandler:      usersHandler,
			Authn:             authn,
			Metrics:           metrics,
		})

		server := &http.Server{
			Addr:         cfg.AppAddr,
			Handler:      router,
			ReadTimeout:  cfg.AppReadTimeout,
			WriteTimeout: cfg.AppWriteTimeout,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
