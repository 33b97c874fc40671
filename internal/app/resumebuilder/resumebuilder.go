package resumebuilder

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/cache"
	"github.com/magabrotheeeer/resume-builder/internal/config"
	"github.com/magabrotheeeer/resume-builder/internal/lib/metrics"
	"github.com/magabrotheeeer/resume-builder/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/services/analytics"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
	"github.com/magabrotheeeer/resume-builder/internal/session"
	"github.com/magabrotheeeer/resume-builder/internal/storage"
)

const (
	amqpRetries = 5
	amqpDelay   = 2 * time.Second
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	session *session.Session
	tracker *analytics.Tracker
	cache   *cache.Cache
	conn    *amqp.Connection
	channel *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	api := backend.NewClient(cfg.BaseURL, cfg.BackendTimeout)

	store, err := app.identityStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	mirror, err := app.analyticsMirror(cfg)
	if err != nil {
		app.close()
		return nil, err
	}
	app.tracker = analytics.New(logger, api, cfg.Analytics.Enabled, "", mirror)

	m := metrics.New(prometheus.DefaultRegisterer)
	board := notice.New(cfg.TTL, logger)
	ctrl := entitlement.New(logger, api, store, board, entitlement.Options{
		Tracker:     app.tracker,
		Metrics:     m,
		ReloadDelay: cfg.ReloadDelay,
	})

	app.session = session.New(logger, session.Deps{
		Backend:    api,
		Controller: ctrl,
		Form:       form.New(cfg.WorkDefaults, cfg.EducationDefaults, logger),
		Notices:    board,
		Tracker:    app.tracker,
		PagePath:   cfg.PagePath,
	})

	st, err := app.session.Start(ctx, "")
	if err != nil {
		app.close()
		return nil, err
	}
	logger.Info("session started", slog.String("state", string(st.State)), slog.String("origin", string(st.Origin)))

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, app.session, m)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// identityStore выбирает хранилище email по конфигу.
func (a *App) identityStore(ctx context.Context, cfg *config.Config) (entitlement.IdentityStore, error) {
	switch cfg.Store {
	case "redis":
		c, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		a.cache = c
		return cache.NewIdentityStore(c, cfg.Key), nil
	case "file", "":
		return storage.NewFileStore(cfg.FilePath), nil
	default:
		return nil, errors.New("unknown identity store: " + cfg.Store)
	}
}

// analyticsMirror подключается к RabbitMQ, если задан AMQPURL.
func (a *App) analyticsMirror(cfg *config.Config) (analytics.Publisher, error) {
	if cfg.AMQPURL == "" {
		return nil, nil
	}
	conn, err := rabbitmq.Connect(cfg.AMQPURL, amqpRetries, amqpDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	a.conn = conn
	a.channel = ch
	return rabbitmq.NewPublisher(ch, cfg.Exchange, cfg.RoutingKey), nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close дожидается отправки аналитики и освобождает соединения.
func (a *App) close() {
	if a.tracker != nil {
		a.tracker.Wait()
	}
	if a.channel != nil {
		if err := a.channel.Close(); err != nil {
			a.logger.Warn("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Warn("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close redis", sl.Err(err))
		}
	}
}
