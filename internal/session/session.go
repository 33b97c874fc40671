// Package session владеет состоянием одной пользовательской сессии: правами
// доступа, формой резюме и сообщениями. Все внешние вызовы идут через API бэкенда.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/resume-builder/internal/backend"
	"github.com/magabrotheeeer/resume-builder/internal/lib/sl"
	"github.com/magabrotheeeer/resume-builder/internal/models"
	"github.com/magabrotheeeer/resume-builder/internal/services/analytics"
	"github.com/magabrotheeeer/resume-builder/internal/services/entitlement"
	"github.com/magabrotheeeer/resume-builder/internal/services/form"
	"github.com/magabrotheeeer/resume-builder/internal/services/notice"
)

var (
	// ErrInFlight такой же запрос уже выполняется.
	ErrInFlight = errors.New("request already in progress")
	// ErrJobDescriptionRequired анализ без описания вакансии не запускается.
	ErrJobDescriptionRequired = errors.New("job description is required")
	// ErrKeywordsUnavailable справочник ключевых слов не загрузился.
	ErrKeywordsUnavailable = errors.New("keywords are unavailable")
)

// Backend вызовы API, которые сессия делает сама, минуя контроллер прав.
type Backend interface {
	AnalyzeJob(ctx context.Context, jobDescription string) (*models.JobAnalysis, error)
	GenerateResume(ctx context.Context, payload models.FormPayload, email string) ([]byte, error)
	SaveData(ctx context.Context, payload models.FormPayload) error
	LoadData(ctx context.Context) (json.RawMessage, error)
	AllKeywords(ctx context.Context) (*models.KeywordCatalog, error)
}

// Tracker аналитика сессии.
type Tracker interface {
	TrackPageView(path, referrer string)
	TrackEvent(name, email string, metadata map[string]any)
}

// Document сгенерированное резюме.
type Document struct {
	Filename string
	Body     []byte
}

// Deps зависимости сессии.
type Deps struct {
	Backend    Backend
	Controller *entitlement.Controller
	Form       *form.Aggregator
	Notices    *notice.Board
	Tracker    Tracker
	PagePath   string
}

// Session единственный владелец состояния сессии.
type Session struct {
	api      Backend
	ctrl     *entitlement.Controller
	form     *form.Aggregator
	notices  *notice.Board
	tracker  Tracker
	pagePath string
	log      *slog.Logger
	now      func() time.Time
	// gated вызывается между предварительной проверкой прав и захватом флага.
	gated func()

	mu         sync.Mutex
	submitting bool
	analyzing  bool
	analysis   *models.JobAnalysis
	keywords   []string
}

// New собирает сессию и подписывает её на перезагрузку формы после регистрации.
func New(log *slog.Logger, deps Deps) *Session {
	s := &Session{
		api:      deps.Backend,
		ctrl:     deps.Controller,
		form:     deps.Form,
		notices:  deps.Notices,
		tracker:  deps.Tracker,
		pagePath: deps.PagePath,
		log:      log,
		now:      time.Now,
	}
	if s.pagePath == "" {
		s.pagePath = "/"
	}
	s.ctrl.SetOnIdentity(func() {
		if _, err := s.Load(context.Background()); err != nil {
			s.log.Debug("deferred reload skipped", sl.Err(err))
		}
	})
	return s
}

// Controller контроллер прав доступа сессии.
func (s *Session) Controller() *entitlement.Controller {
	return s.ctrl
}

// Form агрегатор формы сессии.
func (s *Session) Form() *form.Aggregator {
	return s.form
}

// Notices доска сообщений сессии.
func (s *Session) Notices() *notice.Board {
	return s.notices
}

// Analysis результат последнего анализа вакансии.
func (s *Session) Analysis() (models.JobAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return models.JobAnalysis{}, false
	}
	return *s.analysis, true
}

// Start засевает форму пустыми записями и параллельно загружает конфигурацию
// оплаты, сохранённую идентичность и сохранённые данные формы. Сетевые сбои не
// прерывают запуск; ошибка возвращается только при отмене ctx.
func (s *Session) Start(ctx context.Context, referrer string) (entitlement.Status, error) {
	const op = "session.Start"
	log := s.log.With(sl.Op(op))

	s.form.Reset()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.ctrl.LoadPaymentConfig(gctx)
		return onlyCanceled(err)
	})
	g.Go(func() error {
		_, err := s.ctrl.Restore(gctx)
		return onlyCanceled(err)
	})
	g.Go(func() error {
		_, err := s.Load(gctx)
		return onlyCanceled(err)
	})

	s.tracker.TrackPageView(s.pagePath, referrer)

	if err := g.Wait(); err != nil {
		return s.ctrl.Status(), fmt.Errorf("%s: %w", op, err)
	}

	st := s.ctrl.Status()
	log.Info("session started", slog.String("state", string(st.State)))
	return st, nil
}

func onlyCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (s *Session) begin(flag *bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (s *Session) end(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
}

// Submit проверяет права, сериализует форму и запрашивает PDF.
func (s *Session) Submit(ctx context.Context) (*Document, error) {
	const op = "session.Submit"
	log := s.log.With(sl.Op(op))

	if err := s.gate(); err != nil {
		return nil, err
	}
	if s.gated != nil {
		s.gated()
	}
	if !s.begin(&s.submitting) {
		return nil, ErrInFlight
	}
	defer s.end(&s.submitting)
	// Права могли смениться, пока флаг был свободен.
	if err := s.gate(); err != nil {
		return nil, err
	}

	payload := s.form.Serialize()
	email := s.ctrl.Email()

	body, err := s.api.GenerateResume(ctx, payload, email)
	if err != nil {
		log.Error("failed to generate resume", sl.Err(err))
		var apiErr *backend.APIError
		switch {
		case errors.Is(err, backend.ErrPaymentRequired):
			s.ctrl.RecordPaymentRequired()
			s.notices.Show(notice.KindWarning, "Payment required: "+apiMessage(err))
		case errors.As(err, &apiErr):
			s.notices.Show(notice.KindError, "Error generating resume: "+apiMessage(err))
		default:
			s.notices.Show(notice.KindError, "Error: "+err.Error())
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := s.ctrl.RecordGeneration()
	s.tracker.TrackEvent(analytics.EventGenerate, email, map[string]any{
		"state":   string(st.State),
		"is_paid": st.IsPaid,
	})
	s.notices.Show(notice.KindSuccess, "Resume generated successfully! Check your downloads.")
	log.Info("resume generated", slog.Int("bytes", len(body)))

	return &Document{Filename: Filename(payload.PersonalInfo.Name, s.now()), Body: body}, nil
}

func (s *Session) gate() error {
	switch s.ctrl.CanSubmit() {
	case entitlement.GateNeedEmail:
		s.notices.Show(notice.KindWarning, "Please enter your email to generate your resume")
		return entitlement.ErrEmailRequired
	case entitlement.GateNeedPayment:
		s.notices.Show(notice.KindWarning, "You have used your free resume. Upgrade for unlimited generations.")
		return backend.ErrPaymentRequired
	}
	return nil
}

// Filename имя файла резюме: Resume_<имя через _>_<YYYY-MM-DD>.pdf.
func Filename(name string, at time.Time) string {
	return fmt.Sprintf("Resume_%s_%s.pdf", strings.Join(strings.Fields(name), "_"), at.UTC().Format(time.DateOnly))
}

func apiMessage(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Unknown error"
}

// Analyze отправляет описание вакансии на анализ и запоминает результат.
func (s *Session) Analyze(ctx context.Context) (*models.JobAnalysis, error) {
	const op = "session.Analyze"
	log := s.log.With(sl.Op(op))

	jd := s.form.JobDescription()
	if jd == "" {
		s.notices.Show(notice.KindError, "Please enter a job description first")
		return nil, ErrJobDescriptionRequired
	}

	if !s.begin(&s.analyzing) {
		return nil, ErrInFlight
	}
	defer s.end(&s.analyzing)

	res, err := s.api.AnalyzeJob(ctx, jd)
	if err != nil {
		log.Error("failed to analyze job description", sl.Err(err))
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			s.notices.Show(notice.KindError, "Error analyzing job description: "+apiMessage(err))
		} else {
			s.notices.Show(notice.KindError, "Error connecting to server: "+err.Error())
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.analysis = res
	s.mu.Unlock()

	s.notices.Show(notice.KindSuccess, "Job description analyzed successfully!")
	return res, nil
}

// Save сохраняет сериализованную форму на сервере.
func (s *Session) Save(ctx context.Context) error {
	const op = "session.Save"

	if err := s.api.SaveData(ctx, s.form.Serialize()); err != nil {
		s.log.Error("failed to save data", sl.Op(op), sl.Err(err))
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			s.notices.Show(notice.KindError, "Error saving data: "+apiMessage(err))
		} else {
			s.notices.Show(notice.KindError, "Error connecting to server: "+err.Error())
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notices.Show(notice.KindSuccess, "Data saved successfully!")
	return nil
}

// Load восстанавливает форму из сохранённых данных. Сбои не показываются
// пользователю; false без ошибки означает, что сохранённых данных нет.
func (s *Session) Load(ctx context.Context) (bool, error) {
	const op = "session.Load"
	log := s.log.With(sl.Op(op))

	raw, err := s.api.LoadData(ctx)
	if err != nil {
		log.Debug("no saved data loaded", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if len(raw) == 0 {
		return false, nil
	}

	if err := models.ValidateFormPayload(raw); err != nil {
		log.Warn("saved data rejected", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var payload models.FormPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Warn("saved data rejected", sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.form.Restore(payload)
	s.notices.Show(notice.KindSuccess, "Data loaded successfully!")
	return true, nil
}

// Keywords возвращает справочник ключевых слов, отфильтрованный по подстроке без
// учёта регистра. Справочник загружается один раз за сессию.
func (s *Session) Keywords(ctx context.Context, query string) ([]string, int, error) {
	const op = "session.Keywords"

	s.mu.Lock()
	all := s.keywords
	s.mu.Unlock()

	if all == nil {
		catalog, err := s.api.AllKeywords(ctx)
		if err != nil {
			s.log.Error("failed to load keywords", sl.Op(op), sl.Err(err))
			return nil, 0, fmt.Errorf("%s: %w: %w", op, ErrKeywordsUnavailable, err)
		}
		all = catalog.Keywords
		if all == nil {
			all = []string{}
		}
		s.mu.Lock()
		s.keywords = all
		s.mu.Unlock()
	}

	query = strings.ToLower(query)
	if query == "" {
		return all, len(all), nil
	}
	filtered := make([]string, 0, len(all))
	for _, k := range all {
		if strings.Contains(strings.ToLower(k), query) {
			filtered = append(filtered, k)
		}
	}
	return filtered, len(all), nil
}

// RemoveEntry удаляет запись формы; попытка удалить последнюю запись о работе
// показывает предупреждение.
func (s *Session) RemoveEntry(kind form.Kind, id int) error {
	err := s.form.Remove(kind, id)
	if errors.Is(err, form.ErrLastWorkEntry) {
		s.notices.Show(notice.KindWarning, "You must have at least one work experience entry.")
	}
	return err
}

// Clear сбрасывает форму и результат анализа.
func (s *Session) Clear() {
	s.form.Reset()
	s.mu.Lock()
	s.analysis = nil
	s.mu.Unlock()
	s.notices.Show(notice.KindInfo, "Form cleared successfully")
}
