// Package approve реализует HTTP-обработчик модерации: одобрение статьи.
//
// Одобрение переводит статью в статус approved из любого текущего статуса.
// Причина отклонения, если была, сохраняется как история модерации.
package approve

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

// Handler обрабатывает запросы на одобрение статьи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одобрения статьи.
type Service interface {
	Approve(ctx context.Context, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Одобрить статью
// @Description Переводит статью в статус approved. Доступно только администратору.
// @Tags Moderation
// @Produce  json
// @Param id path string true "Идентификатор статьи"
// @Success 200 {object} map[string]any "Статья одобрена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Router /articles/approve/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.approve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	if err := h.service.Approve(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, article.ErrInvalidID):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid article id"))
		case errors.Is(err, article.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
		default:
			log.Error("failed to approve article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not approve article"))
		}
		return
	}

	log.Info("success to approve article", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": "approved",
	}))
}
