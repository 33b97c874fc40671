// Package reset реализует HTTP-обработчик очистки формы.
package reset

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Clear()
	Form() *form.Aggregator
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Очистить форму
// @Description Сбрасывает все поля и засевает форму пустыми записями по умолчанию.
// @Tags Form
// @Produce  json
// @Success 200 {object} response.Response "Очищенная форма"
// @Router /form/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.reset"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.service.Clear()
	log.Info("form cleared")
	render.JSON(w, r, response.StatusOKWithData(h.service.Form().View()))
}
