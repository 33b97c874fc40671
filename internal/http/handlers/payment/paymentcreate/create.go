// Package paymentcreate обрабатывает запуск оплаты у выбранного провайдера.
package paymentcreate

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
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
)

// Request запрос на запуск оплаты.
type Request struct {
	Provider models.Provider `json:"provider" validate:"required,oneof=stripe paypal coingate"`
}

// Result адрес, на который нужно увести пользователя.
type Result struct {
	RedirectURL string `json:"redirect_url"`
}

// Service описывает контроллер прав.
type Service interface {
	BeginPaymentFlow(ctx context.Context, provider models.Provider, nav entitlement.Navigator) error
}

// Handler запускает оплату.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// redirect запоминает адрес перехода вместо настоящей навигации.
type redirect struct {
	url string
}

func (r *redirect) Navigate(url string) {
	r.url = url
}

func (r *redirect) ClearQuery() {}

// ServeHTTP godoc
// @Summary Начать оплату
// @Description Создаёт заказ у провайдера и возвращает адрес страницы оплаты.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Провайдер"
// @Success 200 {object} response.Response "Адрес страницы оплаты"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или email не указан"
// @Failure 409 {object} response.ErrorResponse "Провайдер отключён"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка провайдера"
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
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

	nav := &redirect{}
	err := h.service.BeginPaymentFlow(r.Context(), req.Provider, nav)
	switch {
	case err == nil:
	case errors.Is(err, entitlement.ErrEmailRequired):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	case errors.Is(err, entitlement.ErrProviderDisabled):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("payment method is unavailable"))
		return
	case errors.Is(err, entitlement.ErrUnknownProvider):
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown payment provider"))
		return
	default:
		log.Error("failed to start payment", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not start payment"))
		return
	}

	log.Info("payment started", slog.String("provider", string(req.Provider)))
	render.JSON(w, r, response.StatusOKWithData(Result{RedirectURL: nav.url}))
}
