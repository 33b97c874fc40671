// Package register реализует HTTP-обработчик регистрации email пользователя.
//
// Handler принимает email, передаёт его контроллеру прав и возвращает текущее
// состояние доступа: пробный, заблокированный или оплаченный.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
)

// Request тело запроса регистрации.
type Request struct {
	Email string `json:"email" validate:"required,max=254"`
}

// Handler обрабатывает регистрацию или возобновление сессии по email.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает контроллер прав, нужный обработчику.
type Service interface {
	RegisterOrResume(ctx context.Context, email string) (entitlement.Status, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать email
// @Description Регистрирует email или восстанавливает существующего пользователя. Некорректный email отклоняется без обращения к API.
// @Tags Identity
// @Accept  json
// @Produce  json
// @Param request body Request true "Email пользователя"
// @Success 200 {object} response.Response "Текущее состояние доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Некорректный email"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /identity [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.identity.register"
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

	st, err := h.service.RegisterOrResume(r.Context(), req.Email)
	if errors.Is(err, entitlement.ErrInvalidEmail) {
		log.Info("invalid email rejected")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("invalid email"))
		return
	}
	if err != nil {
		log.Error("failed to register email", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not register email"))
		return
	}

	log.Info("email registered", slog.String("state", string(st.State)))
	render.JSON(w, r, response.StatusOKWithData(st))
}
