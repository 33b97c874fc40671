// Package resumebuilder собирает companion-сервис конструктора резюме и его маршруты.
package resumebuilder

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/resume-builder/internal/config"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/data/load"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/data/save"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/entryadd"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/entryremove"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/entryupdate"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/read"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/reset"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/form/update"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/identity/register"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/identity/status"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/keywords/list"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/notice/current"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/payment/paymentconfig"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/payment/paymentreturn"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/resume/analyze"
	"github.com/magabrotheeeer/resume-builder/internal/http/handlers/resume/generate"
	"github.com/magabrotheeeer/resume-builder/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-builder/internal/lib/metrics"
	"github.com/magabrotheeeer/resume-builder/internal/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, sess *session.Session, m *metrics.Metrics) {
	ctrl := sess.Controller()
	agg := sess.Form()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.MetricsMiddleware(m))
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RPS, cfg.Burst))

		r.Post("/identity", register.New(logger, ctrl).ServeHTTP)
		r.Get("/identity", status.New(logger, ctrl).ServeHTTP)

		r.Get("/form", read.New(logger, agg).ServeHTTP)
		r.Patch("/form", update.New(logger, agg).ServeHTTP)
		r.Post("/form/reset", reset.New(logger, sess).ServeHTTP)
		r.Post("/form/entries/{kind}", entryadd.New(logger, agg).ServeHTTP)
		r.Put("/form/entries/{kind}/{id}", entryupdate.New(logger, agg).ServeHTTP)
		r.Delete("/form/entries/{kind}/{id}", entryremove.New(logger, sess).ServeHTTP)

		r.Post("/resume", generate.New(logger, sess).ServeHTTP)
		r.Post("/resume/analyze", analyze.New(logger, sess).ServeHTTP)
		r.Get("/keywords", list.New(logger, sess).ServeHTTP)

		r.Post("/data/save", save.New(logger, sess).ServeHTTP)
		r.Post("/data/load", load.New(logger, sess).ServeHTTP)

		r.Get("/payments/config", paymentconfig.New(logger, ctrl).ServeHTTP)
		r.Post("/payments", paymentcreate.New(logger, ctrl).ServeHTTP)

		noticeHandler := current.New(logger, sess.Notices())
		r.Get("/notice", noticeHandler.ServeHTTP)
		r.Delete("/notice", noticeHandler.ServeHTTP)
	})

	// Возврат от провайдера оплаты приходит на страницу, а не в API.
	// После обработки маркеров ответ уводит на тот же путь без параметров.
	r.With(middlewarectx.MetricsMiddleware(m)).
		Get("/payment/return", paymentreturn.New(logger, ctrl, "").ServeHTTP)

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
