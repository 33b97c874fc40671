// Package entitlement реализует контроллер прав доступа: идентичность пользователя,
// состояние пробного/оплаченного доступа, гейт генерации и обработку оплаты.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/analytics"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
)

var (
	// ErrInvalidEmail email не прошёл локальную проверку, запрос не отправлялся.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrEmailRequired операция требует известного email.
	ErrEmailRequired = errors.New("email is required")
	// ErrUnknownProvider неизвестный платёжный провайдер.
	ErrUnknownProvider = errors.New("unknown payment provider")
	// ErrProviderDisabled провайдер выключен в конфигурации оплаты.
	ErrProviderDisabled = errors.New("payment provider is disabled")
	// ErrNoRedirect API не вернул адрес для перехода к оплате.
	ErrNoRedirect = errors.New("payment provider returned no redirect url")
)

const (
	// DefaultReloadDelay задержка перезагрузки формы после регистрации.
	DefaultReloadDelay = 500 * time.Millisecond
	// StripeCheckoutBase адрес страницы оплаты Stripe, если API вернул только session_id.
	StripeCheckoutBase = "https://checkout.stripe.com/c/pay/"
)

// Gate решение о том, можно ли отправить форму на генерацию.
type Gate string

const (
	GateAllowed     Gate = "allowed"
	GateNeedEmail   Gate = "need_email"
	GateNeedPayment Gate = "need_payment"
)

// Outcome результат обработки редиректа от платёжного провайдера.
type Outcome string

const (
	OutcomeNone    Outcome = "none"
	OutcomePaid    Outcome = "paid"
	OutcomePending Outcome = "pending"
	OutcomeFailed  Outcome = "failed"
)

// Status закешированная запись о правах и её происхождение.
type Status struct {
	models.Entitlement
	Origin models.Origin `json:"origin"`
	State  models.State  `json:"state"`
}

// Controller единственный владелец записи о правах в сессии.
type Controller struct {
	backend  Backend
	store    IdentityStore
	notifier Notifier
	tracker  Tracker
	metrics  Recorder
	log      *slog.Logger

	schedule    func(d time.Duration, f func())
	reloadDelay time.Duration
	onIdentity  func()

	mu         sync.Mutex
	ent        models.Entitlement
	origin     models.Origin
	pending    string
	paymentCfg *models.PaymentConfig
	handled    map[string]struct{}
}

// New создаёт контроллер в состоянии StateNew.
func New(log *slog.Logger, b Backend, store IdentityStore, n Notifier, opts Options) *Controller {
	c := &Controller{
		backend:     b,
		store:       store,
		notifier:    n,
		tracker:     opts.Tracker,
		metrics:     opts.Metrics,
		log:         log,
		schedule:    opts.Schedule,
		reloadDelay: opts.ReloadDelay,
		onIdentity:  opts.OnIdentity,
		origin:      models.OriginServer,
		handled:     make(map[string]struct{}),
	}
	if c.tracker == nil {
		c.tracker = noopTracker{}
	}
	if c.metrics == nil {
		c.metrics = noopRecorder{}
	}
	if c.schedule == nil {
		c.schedule = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if c.reloadDelay <= 0 {
		c.reloadDelay = DefaultReloadDelay
	}
	return c
}

// SetOnIdentity задаёт колбэк отложенной перезагрузки формы после регистрации.
func (c *Controller) SetOnIdentity(f func()) {
	c.mu.Lock()
	c.onIdentity = f
	c.mu.Unlock()
}

// Status возвращает копию текущей записи.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Status {
	return Status{Entitlement: c.ent, Origin: c.origin, State: c.ent.State()}
}

// Email возвращает известный email, сохранённый email, ещё не подтверждённый
// сервером, или пустую строку.
func (c *Controller) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ent.Email != "" {
		return c.ent.Email
	}
	return c.pending
}

// CanSubmit решает, можно ли генерировать резюме, по текущему закешированному состоянию.
func (c *Controller) CanSubmit() Gate {
	c.mu.Lock()
	state := c.ent.State()
	c.mu.Unlock()

	var gate Gate
	switch state {
	case models.StatePremium, models.StateTrialAvailable:
		gate = GateAllowed
	case models.StateLocked:
		gate = GateNeedPayment
	default:
		gate = GateNeedEmail
	}
	c.metrics.Gate(string(gate))
	return gate
}

// setServer заменяет запись ответом сервера целиком.
func (c *Controller) setServer(ent models.Entitlement) Status {
	c.mu.Lock()
	from := c.ent.State()
	c.ent = ent
	c.origin = models.OriginServer
	c.pending = ""
	st := c.snapshot()
	c.mu.Unlock()

	if from != st.State {
		c.metrics.Transition(from, st.State)
	}
	return st
}

// predict применяет локальное предсказание; следующий ответ сервера его заменит.
func (c *Controller) predict(mutate func(e *models.Entitlement)) Status {
	c.mu.Lock()
	from := c.ent.State()
	mutate(&c.ent)
	c.ent.CanGenerate = models.DeriveCanGenerate(c.ent.IsPaid, c.ent.FreeUsed)
	c.origin = models.OriginPredicted
	st := c.snapshot()
	c.mu.Unlock()

	if from != st.State {
		c.metrics.Transition(from, st.State)
	}
	return st
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterOrResume регистрирует email или восстанавливает существующего пользователя.
// Некорректный email отклоняется локально без сетевого вызова.
func (c *Controller) RegisterOrResume(ctx context.Context, email string) (Status, error) {
	const op = "entitlement.RegisterOrResume"
	log := c.log.With(sl.Op(op))

	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		c.notifier.Show(notice.KindError, "Please enter a valid email address")
		return c.Status(), ErrInvalidEmail
	}

	user, err := c.backend.RegisterUser(ctx, email)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		c.notifier.Show(notice.KindError, "Error registering email: "+userMessage(err))
		return c.Status(), fmt.Errorf("%s: %w", op, err)
	}

	st := c.setServer(user.Entitlement(email))

	if err := c.store.SaveEmail(ctx, st.Email); err != nil {
		log.Warn("failed to persist email", sl.Err(err))
	}

	c.mu.Lock()
	reload := c.onIdentity
	c.mu.Unlock()
	if reload != nil {
		c.schedule(c.reloadDelay, reload)
	}

	switch st.State {
	case models.StatePremium:
		c.notifier.Show(notice.KindSuccess, "Welcome back! You have unlimited resume generation.")
	case models.StateLocked:
		c.notifier.Show(notice.KindWarning, "You have used your free resume. Upgrade for unlimited generations.")
	default:
		c.notifier.Show(notice.KindSuccess, "Welcome! Your first resume generation is free.")
	}

	c.tracker.TrackEvent(analytics.EventRegister, st.Email, map[string]any{"state": string(st.State)})
	log.Info("user identified", slog.String("state", string(st.State)))
	return st, nil
}

// RefreshStatus перечитывает права с сервера и безусловно перезаписывает кеш.
func (c *Controller) RefreshStatus(ctx context.Context, email string) (Status, error) {
	const op = "entitlement.RefreshStatus"
	log := c.log.With(sl.Op(op))

	email = normalizeEmail(email)
	if email == "" {
		return c.Status(), ErrEmailRequired
	}

	user, err := c.backend.UserStatus(ctx, email)
	if err != nil {
		log.Error("failed to fetch user status", sl.Err(err))
		c.notifier.Show(notice.KindError, "Error checking access status: "+userMessage(err))
		return c.Status(), fmt.Errorf("%s: %w", op, err)
	}
	return c.setServer(user.Entitlement(email)), nil
}

// Restore поднимает сохранённый email и запрашивает его статус. До ответа сервера
// email только запоминается и генерацию не открывает: при сбое состояние остаётся
// прежним, а email доступен для повторного RefreshStatus.
func (c *Controller) Restore(ctx context.Context) (Status, error) {
	const op = "entitlement.Restore"
	log := c.log.With(sl.Op(op))

	email, err := c.store.LoadEmail(ctx)
	if err != nil {
		log.Warn("failed to read stored email", sl.Err(err))
		return c.Status(), fmt.Errorf("%s: %w", op, err)
	}
	email = normalizeEmail(email)
	if email == "" {
		return c.Status(), nil
	}

	c.mu.Lock()
	if c.ent.Email == "" {
		c.pending = email
	}
	c.mu.Unlock()
	return c.RefreshStatus(ctx, email)
}

// RecordGeneration оптимистично блокирует пробный доступ после успешной генерации
// без оплаты.
func (c *Controller) RecordGeneration() Status {
	c.mu.Lock()
	paid := c.ent.IsPaid
	c.mu.Unlock()
	if paid {
		return c.Status()
	}
	return c.predict(func(e *models.Entitlement) { e.FreeUsed = true })
}

// RecordPaymentRequired блокирует доступ по сигналу сервера о необходимости оплаты.
// Оплаченный доступ не понижается.
func (c *Controller) RecordPaymentRequired() Status {
	return c.RecordGeneration()
}

// LoadPaymentConfig загружает конфигурацию оплаты один раз за сессию.
func (c *Controller) LoadPaymentConfig(ctx context.Context) (models.PaymentConfig, error) {
	const op = "entitlement.LoadPaymentConfig"

	c.mu.Lock()
	cached := c.paymentCfg
	c.mu.Unlock()
	if cached != nil {
		return *cached, nil
	}

	cfg, err := c.backend.PaymentConfig(ctx)
	if err != nil {
		c.log.Error("failed to load payment config", sl.Op(op), sl.Err(err))
		return models.PaymentConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	if c.paymentCfg == nil {
		c.paymentCfg = cfg
	}
	out := *c.paymentCfg
	c.mu.Unlock()
	return out, nil
}

// PaymentConfig возвращает закешированную конфигурацию оплаты.
func (c *Controller) PaymentConfig() (models.PaymentConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paymentCfg == nil {
		return models.PaymentConfig{}, false
	}
	return *c.paymentCfg, true
}

func (c *Controller) providerEnabled(p models.Provider) bool {
	cfg, ok := c.PaymentConfig()
	if !ok {
		return true
	}
	switch p {
	case models.ProviderStripe:
		return cfg.Providers.Stripe.Enabled
	case models.ProviderPayPal:
		return cfg.Providers.PayPal.Enabled
	case models.ProviderCoinGate:
		return cfg.Providers.CoinGate.Enabled
	default:
		return false
	}
}

// BeginPaymentFlow запрашивает у API адрес оплаты и уводит пользователя туда.
func (c *Controller) BeginPaymentFlow(ctx context.Context, provider models.Provider, nav Navigator) error {
	const op = "entitlement.BeginPaymentFlow"
	log := c.log.With(sl.Op(op), slog.String("provider", string(provider)))

	email := c.Email()
	if email == "" {
		c.notifier.Show(notice.KindWarning, "Please enter your email first")
		return ErrEmailRequired
	}

	switch provider {
	case models.ProviderStripe, models.ProviderPayPal, models.ProviderCoinGate:
	default:
		return ErrUnknownProvider
	}
	if !c.providerEnabled(provider) {
		c.notifier.Show(notice.KindError, "This payment method is currently unavailable")
		return ErrProviderDisabled
	}

	target, err := c.redirectTarget(ctx, provider, email)
	if err != nil {
		log.Error("failed to start payment", sl.Err(err))
		c.notifier.Show(notice.KindError, "Payment error: "+userMessage(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	c.tracker.TrackEvent(analytics.EventPaymentStart, email, map[string]any{"provider": string(provider)})
	log.Info("redirecting to payment provider")
	nav.Navigate(target)
	return nil
}

func (c *Controller) redirectTarget(ctx context.Context, provider models.Provider, email string) (string, error) {
	var target string
	switch provider {
	case models.ProviderStripe:
		sess, err := c.backend.CreateStripeSession(ctx, email)
		if err != nil {
			return "", err
		}
		target = sess.CheckoutURL
		if target == "" && sess.SessionID != "" {
			target = StripeCheckoutBase + sess.SessionID
		}
	case models.ProviderPayPal:
		approval, err := c.backend.CreatePayPalOrder(ctx, email)
		if err != nil {
			return "", err
		}
		target = approval
	case models.ProviderCoinGate:
		payURL, err := c.backend.CreateCoinGateOrder(ctx, email)
		if err != nil {
			return "", err
		}
		target = payURL
	}
	if target == "" {
		return "", ErrNoRedirect
	}
	return target, nil
}

// markerKey определяет провайдера по маркерам редиректа. Пустой ключ означает, что маркеров нет.
func markerKey(params url.Values) (models.Provider, string) {
	if id := params.Get("session_id"); id != "" {
		return models.ProviderStripe, "stripe:" + id
	}
	switch models.Provider(params.Get("provider")) {
	case models.ProviderPayPal:
		if token := params.Get("token"); token != "" {
			return models.ProviderPayPal, "paypal:" + token
		}
	case models.ProviderCoinGate:
		return models.ProviderCoinGate, "coingate"
	}
	return "", ""
}

// CompletePaymentFromRedirect обрабатывает возврат от провайдера. Маркеры
// убираются из адреса при любом исходе. Маркеры Stripe и PayPal запоминаются
// после окончательного ответа проверки: повторный вызов с ними ничего не делает и
// в сеть не ходит, а после сбоя проверки возврат можно повторить. Возврат CoinGate
// только перечитывает статус и обрабатывается каждый раз.
func (c *Controller) CompletePaymentFromRedirect(ctx context.Context, params url.Values, nav Navigator) (Outcome, error) {
	const op = "entitlement.CompletePaymentFromRedirect"

	provider, key := markerKey(params)
	if key == "" {
		return OutcomeNone, nil
	}
	defer nav.ClearQuery()

	log := c.log.With(sl.Op(op), slog.String("provider", string(provider)))

	if provider == models.ProviderCoinGate {
		return c.completeCoinGate(ctx)
	}

	if !c.claim(key) {
		return OutcomeNone, nil
	}

	var (
		ver *backend.Verification
		err error
	)
	if provider == models.ProviderStripe {
		ver, err = c.backend.VerifyStripe(ctx, params.Get("session_id"))
	} else {
		ver, err = c.backend.CapturePayPalOrder(ctx, params.Get("token"))
	}
	if err != nil {
		c.release(key)
	}
	return c.applyVerification(ctx, log, provider, ver, err)
}

// claim помечает маркеры как обрабатываемые; false, если они уже заняты.
func (c *Controller) claim(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.handled[key]; seen {
		return false
	}
	c.handled[key] = struct{}{}
	return true
}

// release снимает пометку, чтобы возврат с теми же маркерами можно было повторить.
func (c *Controller) release(key string) {
	c.mu.Lock()
	delete(c.handled, key)
	c.mu.Unlock()
}

func (c *Controller) completeCoinGate(ctx context.Context) (Outcome, error) {
	email := c.Email()
	if email == "" {
		return OutcomeNone, ErrEmailRequired
	}
	st, err := c.RefreshStatus(ctx, email)
	if err != nil {
		return OutcomeFailed, err
	}
	if st.State == models.StatePremium {
		c.paid(models.ProviderCoinGate, st.Email)
		return OutcomePaid, nil
	}
	c.notifier.Show(notice.KindInfo, "Payment is being processed. Your access will update once it is confirmed.")
	return OutcomePending, nil
}

func (c *Controller) applyVerification(ctx context.Context, log *slog.Logger, provider models.Provider, ver *backend.Verification, err error) (Outcome, error) {
	if err != nil {
		log.Error("payment verification failed", sl.Err(err))
		c.notifier.Show(notice.KindError, "Payment verification failed. Please contact support.")
		return OutcomeFailed, err
	}
	if !ver.Paid {
		log.Warn("payment not confirmed", slog.String("status", ver.Status))
		c.notifier.Show(notice.KindError, "Payment was not confirmed. Please contact support if you were charged.")
		return OutcomeFailed, nil
	}

	email := normalizeEmail(ver.Email)
	if email == "" {
		email = c.Email()
	}
	c.setServer(models.Entitlement{
		Email:       email,
		IsPaid:      true,
		FreeUsed:    c.Status().FreeUsed,
		CanGenerate: true,
	})
	if email != "" {
		if err := c.store.SaveEmail(ctx, email); err != nil {
			log.Warn("failed to persist email", sl.Err(err))
		}
	}
	c.paid(provider, email)
	return OutcomePaid, nil
}

func (c *Controller) paid(provider models.Provider, email string) {
	c.notifier.Show(notice.KindSuccess, "Payment successful! You now have unlimited resume generation.")
	c.tracker.TrackEvent(analytics.EventPaymentComplete, email, map[string]any{"provider": string(provider)})
	c.log.Info("payment confirmed", slog.String("provider", string(provider)))
}

// userMessage текст ошибки для пользователя: сообщение API, если оно есть.
func userMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
