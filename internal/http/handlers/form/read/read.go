// Package read реализует HTTP-обработчик чтения текущего состояния формы.
package read

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает агрегатор формы.
type Service interface {
	View() form.View
	Serialize() models.FormPayload
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущая форма
// @Description Возвращает записи формы с метками. С ?payload=true возвращает payload в том виде, в котором он уйдёт на генерацию.
// @Tags Form
// @Produce  json
// @Param payload query bool false "Вернуть сериализованный payload"
// @Success 200 {object} response.Response "Состояние формы"
// @Router /form [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if r.URL.Query().Get("payload") == "true" {
		log.Debug("serialized payload requested")
		render.JSON(w, r, response.StatusOKWithData(h.service.Serialize()))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(h.service.View()))
}
