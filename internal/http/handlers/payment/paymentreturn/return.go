// Package paymentreturn обрабатывает возврат пользователя от платёжного провайдера.
//
// Провайдеры возвращают пользователя с маркерами в адресе: session_id у Stripe,
// provider=paypal&token у PayPal, provider=coingate&order_id у CoinGate. После
// обработки маркеры убираются редиректом на адрес без параметров.
package paymentreturn

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
)

// OutcomeHeader заголовок с результатом обработки платежа.
const OutcomeHeader = "X-Payment-Outcome"

// Result результат обработки возврата.
type Result struct {
	Outcome entitlement.Outcome `json:"outcome"`
	Status  entitlement.Status  `json:"status"`
}

// Service описывает контроллер прав.
type Service interface {
	CompletePaymentFromRedirect(ctx context.Context, params url.Values, nav entitlement.Navigator) (entitlement.Outcome, error)
	Status() entitlement.Status
}

type Handler struct {
	log     *slog.Logger
	service Service
	landing string
}

// New создаёт обработчик; landing адрес, куда уводится пользователь после
// очистки маркеров. Пустой landing означает путь самого запроса.
func New(log *slog.Logger, service Service, landing string) *Handler {
	return &Handler{
		log:     log,
		service: service,
		landing: landing,
	}
}

// cleanup фиксирует, что маркеры нужно убрать из адреса.
type cleanup struct {
	cleared bool
}

func (c *cleanup) Navigate(string) {}

func (c *cleanup) ClearQuery() {
	c.cleared = true
}

// ServeHTTP godoc
// @Summary Возврат от провайдера оплаты
// @Description Подтверждает платёж по маркерам в адресе и уводит на адрес без маркеров.
// @Tags Payments
// @Produce  json
// @Param session_id query string false "Идентификатор сессии Stripe"
// @Param provider query string false "paypal или coingate"
// @Param token query string false "Заказ PayPal"
// @Param order_id query string false "Заказ CoinGate"
// @Success 200 {object} response.Response "Маркеров нет, текущее состояние"
// @Success 303 "Маркеры обработаны"
// @Router /payment/return [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.return"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	nav := &cleanup{}
	outcome, err := h.service.CompletePaymentFromRedirect(r.Context(), r.URL.Query(), nav)
	if err != nil {
		log.Error("payment return failed", sl.Err(err), slog.String("outcome", string(outcome)))
	}

	w.Header().Set(OutcomeHeader, string(outcome))
	if nav.cleared {
		target := h.landing
		if target == "" {
			target = r.URL.Path
		}
		log.Info("payment markers handled", slog.String("outcome", string(outcome)))
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	render.JSON(w, r, response.StatusOKWithData(Result{
		Outcome: outcome,
		Status:  h.service.Status(),
	}))
}
