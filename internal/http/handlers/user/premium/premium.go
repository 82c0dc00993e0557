// Package premium реализует HTTP-обработчик активации премиум-подписки.
//
// Handler принимает длительность подписки в днях и включает премиум
// пользователю из URL. Пользователь может активировать премиум только себе.
package premium

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/primescope-news/internal/http/middlewarectx"
	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
	"github.com/magabrotheeeer/primescope-news/internal/services/user"
)

// Handler обрабатывает запросы на активацию премиум-подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики активации премиума.
type Service interface {
	ActivatePremium(ctx context.Context, email string, periodDays int) (time.Time, error)
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
// @Summary Активировать премиум
// @Description Включает премиум-подписку пользователю на заданное число дней.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.DummyPremium true "Длительность подписки"
// @Success 200 {object} map[string]any "Дата истечения премиума"
// @Failure 403 {object} response.ErrorResponse "Чужая почта"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /users/{email} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.premium"
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

	var req models.DummyPremium
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

	expiration, err := h.service.ActivatePremium(r.Context(), email, req.PeriodDays)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			log.Error("user not found", slog.String("email", email))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to activate premium", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate premium"))
		return
	}

	log.Info("activated premium", slog.String("email", email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"premium_expiration": expiration,
	}))
}
