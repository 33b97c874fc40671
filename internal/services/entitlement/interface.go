package entitlement

import (
	"context"
	"time"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
)

// Backend вызовы API, которые нужны контроллеру.
type Backend interface {
	RegisterUser(ctx context.Context, email string) (*backend.UserStatus, error)
	UserStatus(ctx context.Context, email string) (*backend.UserStatus, error)
	PaymentConfig(ctx context.Context) (*models.PaymentConfig, error)
	CreateStripeSession(ctx context.Context, email string) (*backend.StripeSession, error)
	VerifyStripe(ctx context.Context, sessionID string) (*backend.Verification, error)
	CreatePayPalOrder(ctx context.Context, email string) (string, error)
	CapturePayPalOrder(ctx context.Context, orderID string) (*backend.Verification, error)
	CreateCoinGateOrder(ctx context.Context, email string) (string, error)
}

// IdentityStore локальное хранилище email пользователя. Пустая строка без ошибки
// означает, что email ещё не сохранялся.
type IdentityStore interface {
	LoadEmail(ctx context.Context) (string, error)
	SaveEmail(ctx context.Context, email string) error
}

// Notifier показывает пользователю короткое сообщение.
type Notifier interface {
	Show(kind notice.Kind, text string)
}

// Navigator управляет адресом, который видит пользователь.
type Navigator interface {
	// Navigate уводит пользователя на внешний адрес оплаты.
	Navigate(url string)
	// ClearQuery убирает маркеры редиректа из видимого адреса.
	ClearQuery()
}

// Tracker принимает события аналитики без ожидания результата.
type Tracker interface {
	TrackEvent(name, email string, metadata map[string]any)
}

// Recorder собирает метрики переходов и решений гейта.
type Recorder interface {
	Transition(from, to models.State)
	Gate(gate string)
}

// Options необязательные зависимости контроллера.
type Options struct {
	Tracker  Tracker
	Metrics  Recorder
	Schedule func(d time.Duration, f func())
	// ReloadDelay задержка перед перезагрузкой сохранённой формы после регистрации.
	ReloadDelay time.Duration
	// OnIdentity вызывается с задержкой ReloadDelay после успешной регистрации.
	OnIdentity func()
}

type noopTracker struct{}

func (noopTracker) TrackEvent(string, string, map[string]any) {}

type noopRecorder struct{}

func (noopRecorder) Transition(models.State, models.State) {}

func (noopRecorder) Gate(string) {}
