// Package update реализует HTTP-обработчик изменения общих полей формы:
// личных данных, языков и описания вакансии.
package update

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
)

// Request изменяемые поля; отсутствующее поле не меняется.
type Request struct {
	PersonalInfo   *models.PersonalInfo `json:"personal_info"`
	Languages      *string              `json:"languages" validate:"omitempty,max=5000"`
	JobDescription *string              `json:"job_description" validate:"omitempty,max=50000"`
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает агрегатор формы.
type Service interface {
	SetPersonal(p models.PersonalInfo)
	SetLanguages(text string)
	SetJobDescription(text string)
	View() form.View
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Изменить поля формы
// @Tags Form
// @Accept  json
// @Produce  json
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Состояние формы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /form [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.form.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.PersonalInfo != nil {
		h.service.SetPersonal(*req.PersonalInfo)
	}
	if req.Languages != nil {
		h.service.SetLanguages(*req.Languages)
	}
	if req.JobDescription != nil {
		h.service.SetJobDescription(*req.JobDescription)
	}

	render.JSON(w, r, response.StatusOKWithData(h.service.View()))
}
