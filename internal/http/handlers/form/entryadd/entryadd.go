// Package entryadd реализует HTTP-обработчик добавления записи опыта работы или образования.
package entryadd

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

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
	AddWork(values models.WorkExperience) int
	AddEducation(values models.Education) int
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Добавить запись
// @Description Добавляет запись в конец списка. Пустое тело добавляет пустую запись.
// @Tags Form
// @Accept  json
// @Produce  json
// @Param kind path string true "work или education"
// @Success 201 {object} response.Response "Идентификатор новой записи"
// @Failure 400 {object} response.ErrorResponse "Некорректный вид записи или JSON"
// @Router /form/entries/{kind} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.entryadd"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind := form.Kind(chi.URLParam(r, "kind"))

	var id int
	switch kind {
	case form.KindWork:
		var values models.WorkExperience
		if !decodeOptional(w, r, log, &values) {
			return
		}
		id = h.service.AddWork(values)
	case form.KindEducation:
		var values models.Education
		if !decodeOptional(w, r, log, &values) {
			return
		}
		id = h.service.AddEducation(values)
	default:
		log.Error("unknown entry kind", slog.String("kind", string(kind)))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown entry kind"))
		return
	}

	log.Info("entry added", slog.String("kind", string(kind)), slog.Int("id", id))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":   id,
		"kind": kind,
	}))
}

// decodeOptional читает тело, если оно есть. false означает, что ответ уже записан.
func decodeOptional(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	log.Error("failed to decode request", sl.Err(err))
	w.WriteHeader(http.StatusBadRequest)
	render.JSON(w, r, response.Error("invalid request body"))
	return false
}
