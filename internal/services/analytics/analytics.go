// Package analytics отправляет события использования без ожидания результата.
// Ошибки доставки только логируются и никогда не доходят до пользователя.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
)

// События использования.
const (
	EventRegister        = "register"
	EventGenerate        = "generate"
	EventPaymentStart    = "payment_start"
	EventPaymentComplete = "payment_complete"
)

// Backend часть API, принимающая аналитику.
type Backend interface {
	TrackPageView(ctx context.Context, view backend.PageView) error
	TrackEvent(ctx context.Context, event backend.Event) error
}

// Publisher дублирует события в брокер сообщений, см. rabbitmq.Publisher.
type Publisher interface {
	Publish(kind string, event any) error
}

// Message сообщение, публикуемое в брокер.
type Message struct {
	Type       string         `json:"type"`
	Event      string         `json:"event,omitempty"`
	Path       string         `json:"path,omitempty"`
	Email      string         `json:"email,omitempty"`
	VisitorID  string         `json:"visitor_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Tracker отправляет события в API и, если задан mirror, в брокер.
type Tracker struct {
	backend   Backend
	mirror    Publisher
	enabled   bool
	visitorID string
	log       *slog.Logger
	wg        sync.WaitGroup
}

// New создаёт трекер. Пустой visitorID заменяется случайным UUID.
func New(log *slog.Logger, b Backend, enabled bool, visitorID string, mirror Publisher) *Tracker {
	if visitorID == "" {
		visitorID = uuid.NewString()
	}
	return &Tracker{
		backend:   b,
		mirror:    mirror,
		enabled:   enabled,
		visitorID: visitorID,
		log:       log,
	}
}

// VisitorID идентификатор посетителя этой сессии.
func (t *Tracker) VisitorID() string {
	return t.visitorID
}

// TrackPageView отправляет просмотр страницы.
func (t *Tracker) TrackPageView(path, referrer string) {
	if !t.enabled {
		return
	}
	view := backend.PageView{Path: path, Referrer: referrer, VisitorID: t.visitorID}
	msg := Message{Type: "page_view", Path: path, VisitorID: t.visitorID, OccurredAt: time.Now().UTC()}
	t.dispatch("analytics.TrackPageView", msg, func(ctx context.Context) error {
		return t.backend.TrackPageView(ctx, view)
	})
}

// TrackEvent отправляет событие использования.
func (t *Tracker) TrackEvent(name, email string, metadata map[string]any) {
	if !t.enabled {
		return
	}
	event := backend.Event{Event: name, Email: email, VisitorID: t.visitorID, Metadata: metadata}
	msg := Message{
		Type:       "event",
		Event:      name,
		Email:      email,
		VisitorID:  t.visitorID,
		Metadata:   metadata,
		OccurredAt: time.Now().UTC(),
	}
	t.dispatch("analytics.TrackEvent", msg, func(ctx context.Context) error {
		return t.backend.TrackEvent(ctx, event)
	})
}

func (t *Tracker) dispatch(op string, msg Message, send func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		log := t.log.With(sl.Op(op), slog.String("type", msg.Type), slog.String("event", msg.Event))

		// Срок доставки задаёт HTTP-клиент backend (backend.timeout).
		if err := send(context.Background()); err != nil {
			log.Debug("analytics delivery failed", sl.Err(err))
		}
		if t.mirror != nil {
			if err := t.mirror.Publish(msg.Type, msg); err != nil {
				log.Debug("analytics mirror failed", sl.Err(err))
			}
		}
	}()
}

// Wait дожидается отправки всех начатых событий.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
