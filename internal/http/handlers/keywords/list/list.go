// Package list реализует HTTP-обработчик поиска по справочнику ключевых слов.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
)

// Result найденные ключевые слова и размер полного справочника.
type Result struct {
	Keywords []string `json:"keywords"`
	Total    int      `json:"total"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Keywords(ctx context.Context, query string) ([]string, int, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Поиск ключевых слов
// @Tags Keywords
// @Produce  json
// @Param q query string false "Подстрока для поиска без учёта регистра"
// @Success 200 {object} response.Response "Найденные ключевые слова"
// @Failure 502 {object} response.ErrorResponse "Справочник недоступен"
// @Router /keywords [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.keywords.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	keywords, total, err := h.service.Keywords(r.Context(), query)
	if err != nil {
		log.Error("failed to list keywords", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("keywords are unavailable"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(Result{
		Keywords: keywords,
		Total:    total,
	}))
}
