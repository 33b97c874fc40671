// Package load реализует HTTP-обработчик восстановления формы из сохранённых данных.
package load

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
)

// Result признак того, что форма была восстановлена.
type Result struct {
	Loaded bool `json:"loaded"`
}

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Load(ctx context.Context) (bool, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Загрузить сохранённую форму
// @Description Сбой загрузки не считается ошибкой: форма остаётся как есть.
// @Tags Data
// @Produce  json
// @Success 200 {object} response.Response "Результат загрузки"
// @Router /data/load [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.data.load"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	loaded, err := h.service.Load(r.Context())
	if err != nil {
		log.Debug("saved data not loaded", sl.Err(err))
	}

	render.JSON(w, r, response.StatusOKWithData(Result{Loaded: loaded}))
}
