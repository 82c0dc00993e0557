package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
)

// AdminChecker описывает интерфейс проверки административной роли.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AdminMiddleware возвращает HTTP middleware, который пропускает только
// администраторов. Роль проверяется по справочнику пользователей на каждый
// запрос, а не по claims токена: отзыв роли действует сразу.
// Ставится после JWTMiddleware.
func AdminMiddleware(users AdminChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "auth.AdminMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			email, ok := r.Context().Value(Email).(string)
			if !ok || email == "" {
				log.Error("email not found in context")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			isAdmin, err := users.IsAdmin(r.Context(), email)
			if err != nil {
				log.Error("failed to check admin role", sl.Err(err))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden access"))
				return
			}
			if !isAdmin {
				log.Error("forbidden access", slog.String("email", email))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden access"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
