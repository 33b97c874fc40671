// Package notice хранит единственное текущее сообщение для пользователя.
// Новое сообщение всегда вытесняет предыдущее, каждое гаснет через фиксированный TTL.
package notice

import (
	"log/slog"
	"sync"
	"time"
)

// Kind тип сообщения.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultTTL время показа сообщения по умолчанию.
const DefaultTTL = 5 * time.Second

// Message показанное сообщение.
type Message struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	ShownAt   time.Time `json:"shown_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Board доска сообщений сессии.
type Board struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	log     *slog.Logger
	current *Message
}

// New создаёт доску с заданным TTL; неположительный ttl заменяется на DefaultTTL.
func New(ttl time.Duration, log *slog.Logger) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{
		ttl: ttl,
		now: time.Now,
		log: log,
	}
}

// Show показывает сообщение, заменяя текущее.
func (b *Board) Show(kind Kind, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.current = &Message{
		Kind:      kind,
		Text:      text,
		ShownAt:   now,
		ExpiresAt: now.Add(b.ttl),
	}
	b.log.Debug("notice shown", slog.String("kind", string(kind)), slog.String("text", text))
}

// Current возвращает текущее сообщение, если оно ещё не погасло.
func (b *Board) Current() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Message{}, false
	}
	if !b.now().Before(b.current.ExpiresAt) {
		b.current = nil
		return Message{}, false
	}
	return *b.current, true
}

// Dismiss убирает сообщение досрочно.
func (b *Board) Dismiss() {
	b.mu.Lock()
	b.current = nil
	b.mu.Unlock()
}
