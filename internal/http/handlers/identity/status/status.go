// Package status реализует HTTP-обработчик чтения состояния доступа.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
)

// Handler возвращает закешированное состояние, а с ?refresh=true сначала перечитывает его с сервера.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает контроллер прав, нужный обработчику.
type Service interface {
	Status() entitlement.Status
	Email() string
	RefreshStatus(ctx context.Context, email string) (entitlement.Status, error)
	CanSubmit() entitlement.Gate
}

// Result ответ обработчика.
type Result struct {
	entitlement.Status
	Gate entitlement.Gate `json:"gate"`
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Состояние доступа
// @Description Возвращает состояние прав и решение гейта генерации.
// @Tags Identity
// @Produce  json
// @Param refresh query bool false "Перечитать статус с сервера"
// @Success 200 {object} response.Response "Состояние доступа"
// @Failure 502 {object} response.ErrorResponse "API недоступен"
// @Router /identity [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.identity.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	st := h.service.Status()
	if r.URL.Query().Get("refresh") == "true" && h.service.Email() != "" {
		var err error
		st, err = h.service.RefreshStatus(r.Context(), h.service.Email())
		if err != nil {
			log.Error("failed to refresh status", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not refresh status"))
			return
		}
	}

	render.JSON(w, r, response.StatusOKWithData(Result{Status: st, Gate: h.service.CanSubmit()}))
}
