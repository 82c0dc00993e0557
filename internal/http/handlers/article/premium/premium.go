// Package premium реализует HTTP-обработчик пометки статьи как премиальной.
package premium

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/services/article"
)

// Handler обрабатывает запросы на пометку статьи как премиальной.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики премиальной пометки.
type Service interface {
	SetPremium(ctx context.Context, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.premium"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.SetPremium(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, article.ErrInvalidID):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid article id"))
		case errors.Is(err, article.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
		default:
			log.Error("failed to set premium flag", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not set premium flag"))
		}
		return
	}

	log.Info("success to set premium flag", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":         id,
		"is_premium": true,
	}))
}
