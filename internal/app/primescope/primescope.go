// Package primescope собирает основное приложение новостной платформы:
// хранилище, кеш, сервисы и HTTP-сервер с маршрутами.
package primescope

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/primescope-news/internal/cache"
	"github.com/magabrotheeeer/primescope-news/internal/config"
	jwtlib "github.com/magabrotheeeer/primescope-news/internal/lib/jwt"
	"github.com/magabrotheeeer/primescope-news/internal/migrations"
	"github.com/magabrotheeeer/primescope-news/internal/paymentprovider"
	articleservice "github.com/magabrotheeeer/primescope-news/internal/services/article"
	authservice "github.com/magabrotheeeer/primescope-news/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/primescope-news/internal/services/payment"
	publisherservice "github.com/magabrotheeeer/primescope-news/internal/services/publisher"
	userservice "github.com/magabrotheeeer/primescope-news/internal/services/user"
	"github.com/magabrotheeeer/primescope-news/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  cache.Cache
}

// New собирает приложение: подключает базу, применяет миграции,
// поднимает кеш и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.StripeSecretKey)

	userService := userservice.NewUserService(db, logger)
	authService := authservice.NewAuthService(db, jwtMaker)
	articleService := articleservice.NewArticleService(db, db, db, cacheRedis, logger)
	publisherService := publisherservice.NewPublisherService(db, logger)
	paymentService := paymentservice.New(db, userService, providerClient, cfg.Currency, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteServices{
		Auth:      authService,
		Users:     userService,
		Articles:  articleService,
		Publisher: publisherService,
		Payments:  paymentService,
		Storage:   db,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  *cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
