// Package save реализует HTTP-обработчик сохранения формы в API.
package save

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Save(ctx context.Context) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сохранить форму
// @Tags Data
// @Produce  json
// @Success 200 {object} response.Response "Форма сохранена"
// @Failure 502 {object} response.ErrorResponse "Ошибка API"
// @Router /data/save [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.data.save"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Save(r.Context()); err != nil {
		log.Error("failed to save data", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not save data"))
		return
	}

	log.Info("data saved")
	render.JSON(w, r, response.StatusOKWithData(map[string]bool{"saved": true}))
}
