// Package analyze реализует HTTP-обработчик анализа описания вакансии.
package analyze

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/session"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Analyze(ctx context.Context) (*models.JobAnalysis, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проанализировать вакансию
// @Description Отправляет описание вакансии из формы на анализ и возвращает ключевые слова и навыки.
// @Tags Resume
// @Produce  json
// @Success 200 {object} response.Response "Результат анализа"
// @Failure 409 {object} response.ErrorResponse "Анализ уже выполняется"
// @Failure 422 {object} response.ErrorResponse "Описание вакансии пустое"
// @Failure 502 {object} response.ErrorResponse "Ошибка API"
// @Router /resume/analyze [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.analyze"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	analysis, err := h.service.Analyze(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, session.ErrJobDescriptionRequired):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("job description is required"))
		return
	case errors.Is(err, session.ErrInFlight):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("analysis already in progress"))
		return
	default:
		log.Error("failed to analyze job description", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not analyze job description"))
		return
	}

	log.Info("job description analyzed", slog.Int("keywords", len(analysis.Keywords)))
	render.JSON(w, r, response.StatusOKWithData(analysis))
}
