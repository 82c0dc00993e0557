// Package list реализует HTTP-обработчик публичной ленты статей.
//
// Handler разбирает параметры фильтра из query-строки и возвращает страницу
// одобренных статей вместе с общим количеством подходящих под фильтр.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/primescope-news/internal/http/response"
	"github.com/magabrotheeeer/primescope-news/internal/lib/sl"
	"github.com/magabrotheeeer/primescope-news/internal/models"
)

// Handler обрабатывает запросы публичной ленты статей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ленты статей.
type Service interface {
	ListApproved(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Лента одобренных статей
// @Description Возвращает страницу одобренных статей по фильтру: подстрока
// заголовка, издатель, теги. Вместе со страницей возвращается общее
// количество статей под фильтром.
// @Tags Articles
// @Produce  json
// @Param search query string false "Подстрока заголовка"
// @Param publisher query string false "Название издателя"
// @Param tags query string false "Теги через запятую"
// @Param page query int false "Номер страницы (с единицы)"
// @Param limit query int false "Размер страницы"
// @Success 200 {object} map[string]any "Статьи и общее количество"
// @Router /articles [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := parseFilter(r)

	items, total, err := h.service.ListApproved(r.Context(), filter)
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list articles"))
		return
	}

	log.Info("success to list articles", slog.Int("count", len(items)), slog.Int("total", total))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"articles": items,
		"total":    total,
	}))
}

func parseFilter(r *http.Request) models.ArticleFilter {
	q := r.URL.Query()
	filter := models.ArticleFilter{
		Search:    q.Get("search"),
		Publisher: q.Get("publisher"),
	}
	if tags := q.Get("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 0 // сервис подставит размер страницы по умолчанию
	}
	filter.Limit = limit
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 && limit > 0 {
		filter.Offset = (page - 1) * limit
	}
	return filter
}
