// Package current реализует HTTP-обработчик чтения текущего сообщения пользователю.
package current

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает доску сообщений.
type Service interface {
	Current() (notice.Message, bool)
	Dismiss()
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Текущее сообщение
// @Description Возвращает сообщение, если оно ещё не погасло. DELETE убирает его досрочно.
// @Tags Notice
// @Produce  json
// @Success 200 {object} response.Response "Сообщение"
// @Success 204 "Сообщения нет"
// @Router /notice [get]
// @Router /notice [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		h.service.Dismiss()
		h.log.Debug("notice dismissed")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msg, ok := h.service.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(msg))
}
