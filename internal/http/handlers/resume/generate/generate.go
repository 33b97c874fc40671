// Package generate реализует HTTP-обработчик генерации резюме в PDF.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/http/response"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
	"github.com/magabrotheeeer/resume-builder/internal/session"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сессию.
type Service interface {
	Submit(ctx context.Context) (*session.Document, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать резюме
// @Description Проверяет права доступа, отправляет форму на генерацию и отдаёт PDF как вложение.
// @Tags Resume
// @Produce application/pdf
// @Success 200 {file} file "PDF резюме"
// @Failure 400 {object} response.ErrorResponse "Email не указан"
// @Failure 402 {object} response.ErrorResponse "Нужна оплата"
// @Failure 409 {object} response.ErrorResponse "Генерация уже выполняется"
// @Failure 502 {object} response.ErrorResponse "Ошибка API"
// @Router /resume [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resume.generate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	doc, err := h.service.Submit(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, entitlement.ErrEmailRequired):
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email is required"))
		return
	case errors.Is(err, backend.ErrPaymentRequired):
		log.Info("payment required")
		w.WriteHeader(http.StatusPaymentRequired)
		render.JSON(w, r, response.Error("payment required"))
		return
	case errors.Is(err, session.ErrInFlight):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("generation already in progress"))
		return
	default:
		log.Error("failed to generate resume", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not generate resume"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		log.Error("failed to write document", sl.Err(err))
		return
	}
	log.Info("resume sent", slog.String("filename", doc.Filename))
}
