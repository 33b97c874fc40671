// Package entryremove реализует HTTP-обработчик удаления записи формы.
package entryremove

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию: удаление последней записи о работе показывает предупреждение.
type Service interface {
	RemoveEntry(kind form.Kind, id int) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить запись
// @Description Удаляет запись формы. Последнюю запись о работе удалить нельзя.
// @Tags Form
// @Produce  json
// @Param kind path string true "work или education"
// @Param id path int true "Идентификатор записи"
// @Success 200 {object} response.Response "Запись удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Failure 409 {object} response.ErrorResponse "Последняя запись о работе"
// @Router /form/entries/{kind}/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.entryremove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}
	kind := form.Kind(chi.URLParam(r, "kind"))

	err = h.service.RemoveEntry(kind, id)
	switch {
	case err == nil:
	case errors.Is(err, form.ErrLastWorkEntry):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error(form.ErrLastWorkEntry.Error()))
		return
	case errors.Is(err, form.ErrEntryNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("entry not found"))
		return
	case errors.Is(err, form.ErrUnknownKind):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown entry kind"))
		return
	default:
		log.Error("failed to remove entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove entry"))
		return
	}

	log.Info("entry removed", slog.String("kind", string(kind)), slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":   id,
		"kind": kind,
	}))
}
