// Package premiumlist реализует HTTP-обработчик ленты премиальных статей.
//
// Лента доступна только пользователям с активным премиумом: middleware
// проверяет токен, а Handler дополнительно сверяет премиум-статус в базе,
// чтобы истёкшая подписка не открывала доступ по старому токену.
package premiumlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/user"
)

// Handler обрабатывает запросы ленты премиальных статей.
type Handler struct {
	log     *slog.Logger
	service Service
	users   UserDirectory
}

// Service описывает интерфейс бизнес-логики премиальной ленты.
type Service interface {
	ListPremium(ctx context.Context) ([]*models.Article, error)
}

// UserDirectory проверяет премиум-статус текущего пользователя.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, users UserDirectory) *Handler {
	return &Handler{
		log:     log,
		service: service,
		users:   users,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.premiumlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	u, err := h.users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	if !u.IsPremium {
		log.Info("premium required", slog.String("email", email))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("premium subscription required"))
		return
	}

	items, err := h.service.ListPremium(r.Context())
	if err != nil {
		log.Error("failed to list premium articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list premium articles"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"articles": items,
	}))
}
