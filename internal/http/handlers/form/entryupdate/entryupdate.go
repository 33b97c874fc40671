// Package entryupdate реализует HTTP-обработчик изменения полей одной записи формы.
package entryupdate

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает агрегатор формы.
type Service interface {
	UpdateWork(id int, values models.WorkExperience) error
	UpdateEducation(id int, values models.Education) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Изменить запись
// @Tags Form
// @Accept  json
// @Produce  json
// @Param kind path string true "work или education"
// @Param id path int true "Идентификатор записи"
// @Success 200 {object} response.Response "Запись обновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Запись не найдена"
// @Router /form/entries/{kind}/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.entryupdate"
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
	switch kind {
	case form.KindWork:
		var values models.WorkExperience
		if err = json.NewDecoder(r.Body).Decode(&values); err == nil {
			err = h.service.UpdateWork(id, values)
		}
	case form.KindEducation:
		var values models.Education
		if err = json.NewDecoder(r.Body).Decode(&values); err == nil {
			err = h.service.UpdateEducation(id, values)
		}
	default:
		err = form.ErrUnknownKind
	}

	switch {
	case err == nil:
	case errors.Is(err, form.ErrEntryNotFound):
		log.Info("entry not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("entry not found"))
		return
	case errors.Is(err, form.ErrUnknownKind):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown entry kind"))
		return
	default:
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":   id,
		"kind": kind,
	}))
}
