// Package get реализует HTTP-обработчик получения статьи по идентификатору.
package get

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
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/article"
)

// Handler обрабатывает запросы на получение статьи по идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения статьи.
type Service interface {
	Get(ctx context.Context, id string) (*models.Article, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, article.ErrInvalidID):
			log.Error("invalid article id", slog.String("id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid article id"))
		case errors.Is(err, article.ErrNotFound):
			log.Error("article not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
		default:
			log.Error("failed to read article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read article"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"article": a,
	}))
}
