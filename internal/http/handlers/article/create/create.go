// Package create реализует HTTP-обработчик публикации новой статьи.
//
// Handler принимает JSON-запрос с данными статьи, валидирует их, извлекает
// почту автора из контекста и вызывает бизнес-логику создания. Автор без
// активного премиума может иметь только одну статью: превышение квоты
// возвращается как конфликт.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/article"
)

// Handler управляет HTTP-запросами на публикацию статей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики жизненного цикла статей
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики публикации статьи.
type Service interface {
	Create(ctx context.Context, authorEmail string, req models.DummyArticle) (string, error)
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
// @Summary Опубликовать статью
// @Description Создаёт статью в статусе pending от имени текущего пользователя.
// @Tags Articles
// @Accept  json
// @Produce  json
// @Param request body models.DummyArticle true "Данные новой статьи"
// @Success 201 {object} map[string]any "Статья создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Квота бесплатных публикаций исчерпана"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /articles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyArticle
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

	email, ok := r.Context().Value(middlewarectx.Email).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Create(r.Context(), email, req)
	if err != nil {
		switch {
		case errors.Is(err, article.ErrQuotaExceeded):
			log.Error("quota exceeded", slog.String("author", email))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("one free article per non-premium user"))
		case errors.Is(err, article.ErrAuthorNotFound):
			log.Error("author not found", slog.String("author", email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("author not found"))
		default:
			log.Error("failed to create article", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create article"))
		}
		return
	}

	log.Info("success to create article", slog.String("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
