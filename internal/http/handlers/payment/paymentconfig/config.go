// Package paymentconfig реализует HTTP-обработчик чтения конфигурации оплаты.
package paymentconfig

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает контроллер прав. Конфигурация кешируется после первой загрузки.
type Service interface {
	LoadPaymentConfig(ctx context.Context) (models.PaymentConfig, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Конфигурация оплаты
// @Description Цена и доступные платёжные провайдеры.
// @Tags Payments
// @Produce  json
// @Success 200 {object} response.Response "Конфигурация оплаты"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /payments/config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.config"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cfg, err := h.service.LoadPaymentConfig(r.Context())
	if err != nil {
		log.Error("failed to load payment config", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment config is unavailable"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(cfg))
}
