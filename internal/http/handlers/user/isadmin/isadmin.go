// Package isadmin реализует HTTP-обработчик проверки административной роли.
// Пользователь может спросить только про собственную почту.
package isadmin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/services/user"
)

// Handler обрабатывает запросы на проверку административной роли.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки роли.
type Service interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.isadmin"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := chi.URLParam(r, "email")
	claimsEmail, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || claimsEmail != email {
		log.Error("email mismatch", slog.String("email", email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden access"))
		return
	}

	isAdmin, err := h.service.IsAdmin(r.Context(), email)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		log.Error("failed to check role", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check role"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"admin": isAdmin,
	}))
}
