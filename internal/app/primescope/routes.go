// Package primescope предоставляет маршруты для основного приложения.
package primescope

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	articleapprove "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/approve"
	articlecreate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/create"
	articledecline "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/decline"
	articleget "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/get"
	articlelist "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/list"
	articlemine "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/mine"
	articlepremium "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/premium"
	articlepremiumlist "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/premiumlist"
	articleremove "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/remove"
	articletrending "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/trending"
	articleupdate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/update"
	articleview "github.com/magabrotheeeer/primescope-news/internal/http/handlers/article/view"
	authtoken "github.com/magabrotheeeer/primescope-news/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/primescope-news/internal/http/handlers/health"
	paymentintent "github.com/magabrotheeeer/primescope-news/internal/http/handlers/payment/intent"
	profileget "github.com/magabrotheeeer/primescope-news/internal/http/handlers/profile/get"
	profileupdate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/profile/update"
	publishercreate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/publisher/create"
	publisherlist "github.com/magabrotheeeer/primescope-news/internal/http/handlers/publisher/list"
	subscriptioncreate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/subscription/create"
	usercreate "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/create"
	userget "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/get"
	userisadmin "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/isadmin"
	userlist "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/list"
	userpremium "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/premium"
	userpromote "github.com/magabrotheeeer/primescope-news/internal/http/handlers/user/promote"
	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	articleservice "github.com/magabrotheeeer/primescope-news/internal/services/article"
	authservice "github.com/magabrotheeeer/primescope-news/internal/services/auth"
	paymentservice "github.com/magabrotheeeer/primescope-news/internal/services/payment"
	publisherservice "github.com/magabrotheeeer/primescope-news/internal/services/publisher"
	userservice "github.com/magabrotheeeer/primescope-news/internal/services/user"
	"github.com/magabrotheeeer/primescope-news/internal/storage/repository"
)

// RouteServices перечисляет сервисы, которые нужны маршрутам приложения.
type RouteServices struct {
	Auth      *authservice.AuthService
	Users     *userservice.UserService
	Articles  *articleservice.ArticleService
	Publisher *publisherservice.PublisherService
	Payments  *paymentservice.PaymentService
	Storage   *repository.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/jwt", authtoken.New(logger, svc.Auth).ServeHTTP)
		r.Post("/users", usercreate.New(logger, svc.Users).ServeHTTP)
		r.Get("/publishers", publisherlist.New(logger, svc.Publisher).ServeHTTP)
		r.Get("/articles", articlelist.New(logger, svc.Articles).ServeHTTP)
		r.Get("/articles/{id}", articleget.New(logger, svc.Articles).ServeHTTP)
		r.Put("/articles/{id}/view", articleview.New(logger, svc.Articles).ServeHTTP)
		r.Get("/trending-articles", articletrending.New(logger, svc.Articles).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profileget.New(logger, svc.Users).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, svc.Users).ServeHTTP)
			r.Post("/articles", articlecreate.New(logger, svc.Articles).ServeHTTP)
			r.Patch("/articles/{id}", articleupdate.New(logger, svc.Articles).ServeHTTP)
			r.Delete("/articles/{id}", articleremove.New(logger, svc.Articles).ServeHTTP)
			r.Get("/myArticles", articlemine.New(logger, svc.Articles).ServeHTTP)
			r.Get("/premium-articles", articlepremiumlist.New(logger, svc.Articles, svc.Users).ServeHTTP)
			r.Post("/create-payment-intent", paymentintent.New(logger, svc.Payments).ServeHTTP)
			r.Post("/subscriptions", subscriptioncreate.New(logger, svc.Payments).ServeHTTP)
			r.Patch("/users/{email}", userpremium.New(logger, svc.Users).ServeHTTP)
			r.Get("/users/admin/{email}", userisadmin.New(logger, svc.Users).ServeHTTP)

			// Группа с проверкой роли администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(svc.Users, logger))
				r.Get("/users", userlist.New(logger, svc.Users).ServeHTTP)
				r.Get("/users/{email}", userget.New(logger, svc.Users).ServeHTTP)
				r.Patch("/users/admin/{id}", userpromote.New(logger, svc.Users).ServeHTTP)
				r.Post("/publishers", publishercreate.New(logger, svc.Publisher).ServeHTTP)
				r.Patch("/articles/approve/{id}", articleapprove.New(logger, svc.Articles).ServeHTTP)
				r.Patch("/articles/decline/{id}", articledecline.New(logger, svc.Articles).ServeHTTP)
				r.Patch("/articles/premium/{id}", articlepremium.New(logger, svc.Articles).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, svc.Storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
