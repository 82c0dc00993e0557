// Package decline реализует HTTP-обработчик модерации: отклонение статьи.
package decline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/article"
)

// Handler обрабатывает запросы на отклонение статьи.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики отклонения статьи.
type Service interface {
	Decline(ctx context.Context, id string, reason string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Отклонить статью
// @Description Переводит статью в статус declined с указанием причины.
// Доступно только администратору.
// @Tags Moderation
// @Accept  json
// @Produce  json
// @Param id path string true "Идентификатор статьи"
// @Param request body models.DummyDecline true "Причина отклонения"
// @Success 200 {object} map[string]any "Статья отклонена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор или JSON"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /articles/decline/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.decline"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyDecline
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Decline(r.Context(), id, req.Reason); err != nil {
		switch {
		case errors.Is(err, article.ErrInvalidID):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid article id"))
		case errors.Is(err, article.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
		default:
			log.Error("failed to decline article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not decline article"))
		}
		return
	}

	log.Info("success to decline article", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": "declined",
	}))
}
