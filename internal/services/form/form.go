// Package form собирает данные формы резюме: личные данные, упорядоченные списки
// опыта работы и образования, языки и описание вакансии.
package form

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/magabrotheeeer/resume-builder/internal/models"
)

// Kind вид динамической записи формы.
type Kind string

const (
	KindWork      Kind = "work"
	KindEducation Kind = "education"
)

const (
	// DefaultWorkEntries пустых записей опыта работы после Reset.
	DefaultWorkEntries = 4
	// DefaultEducationEntries пустых записей образования после Reset.
	DefaultEducationEntries = 2
)

var (
	// ErrLastWorkEntry нельзя удалить единственную запись опыта работы.
	ErrLastWorkEntry = errors.New("you must have at least one work experience entry")
	// ErrEntryNotFound запись с таким идентификатором отсутствует.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnknownKind неизвестный вид записи.
	ErrUnknownKind = errors.New("unknown entry kind")
)

// workView данные одной отрисованной записи опыта работы.
type workView struct {
	values models.WorkExperience
}

// educationView данные одной отрисованной записи об образовании.
type educationView struct {
	values models.Education
}

// WorkEntry запись опыта работы в текущем порядке отображения.
type WorkEntry struct {
	ID     int                   `json:"id"`
	Label  string                `json:"label"`
	Values models.WorkExperience `json:"values"`
}

// EducationEntry запись об образовании в текущем порядке отображения.
type EducationEntry struct {
	ID     int              `json:"id"`
	Label  string           `json:"label"`
	Values models.Education `json:"values"`
}

// View снимок формы для отображения.
type View struct {
	PersonalInfo   models.PersonalInfo `json:"personal_info"`
	Work           []WorkEntry         `json:"work_experience"`
	Education      []EducationEntry    `json:"education"`
	Languages      string              `json:"languages"`
	JobDescription string              `json:"job_description"`
}

// Aggregator владеет состоянием формы. Идентификаторы выдаются отдельными
// возрастающими счётчиками для каждого вида и обнуляются только полной очисткой.
// Порядок отображения совпадает с порядком вставки, а не с порядком идентификаторов.
type Aggregator struct {
	mu  sync.Mutex
	log *slog.Logger

	workDefaults      int
	educationDefaults int

	personal       models.PersonalInfo
	languages      string
	jobDescription string

	workSeq   int
	workOrder []int
	work      map[int]*workView

	educationSeq   int
	educationOrder []int
	education      map[int]*educationView
}

// New создаёт пустой агрегатор. Записи по умолчанию появляются после Reset.
// Неположительные значения заменяются на DefaultWorkEntries и DefaultEducationEntries.
func New(workDefaults, educationDefaults int, log *slog.Logger) *Aggregator {
	if workDefaults <= 0 {
		workDefaults = DefaultWorkEntries
	}
	if educationDefaults <= 0 {
		educationDefaults = DefaultEducationEntries
	}
	return &Aggregator{
		log:               log,
		workDefaults:      workDefaults,
		educationDefaults: educationDefaults,
		work:              make(map[int]*workView),
		education:         make(map[int]*educationView),
	}
}

// AddWork добавляет запись опыта работы в конец списка и возвращает её идентификатор.
func (a *Aggregator) AddWork(values models.WorkExperience) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addWork(values)
}

// AddEducation добавляет запись об образовании в конец списка.
func (a *Aggregator) AddEducation(values models.Education) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.addEducation(values)
}

// AddBlank добавляет пустую запись вида kind.
func (a *Aggregator) AddBlank(kind Kind) (int, error) {
	switch kind {
	case KindWork:
		return a.AddWork(models.WorkExperience{}), nil
	case KindEducation:
		return a.AddEducation(models.Education{}), nil
	default:
		return 0, ErrUnknownKind
	}
}

func (a *Aggregator) addWork(values models.WorkExperience) int {
	a.workSeq++
	id := a.workSeq
	a.work[id] = &workView{values: values}
	a.workOrder = append(a.workOrder, id)
	return id
}

func (a *Aggregator) addEducation(values models.Education) int {
	a.educationSeq++
	id := a.educationSeq
	a.education[id] = &educationView{values: values}
	a.educationOrder = append(a.educationOrder, id)
	return id
}

// Remove удаляет запись. Единственную запись опыта работы удалить нельзя:
// возвращается ErrLastWorkEntry и список не меняется.
func (a *Aggregator) Remove(kind Kind, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch kind {
	case KindWork:
		if len(a.workOrder) <= 1 {
			return ErrLastWorkEntry
		}
		if _, ok := a.work[id]; !ok {
			return ErrEntryNotFound
		}
		a.workOrder = removeID(a.workOrder, id)
		delete(a.work, id)
	case KindEducation:
		if _, ok := a.education[id]; !ok {
			return ErrEntryNotFound
		}
		a.educationOrder = removeID(a.educationOrder, id)
		delete(a.education, id)
	default:
		return ErrUnknownKind
	}
	return nil
}

func removeID(order []int, id int) []int {
	out := order[:0]
	for _, v := range order {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// UpdateWork заменяет значения полей записи опыта работы.
func (a *Aggregator) UpdateWork(id int, values models.WorkExperience) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, ok := a.work[id]
	if !ok {
		return ErrEntryNotFound
	}
	v.values = values
	return nil
}

// UpdateEducation заменяет значения полей записи об образовании.
func (a *Aggregator) UpdateEducation(id int, values models.Education) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	v, ok := a.education[id]
	if !ok {
		return ErrEntryNotFound
	}
	v.values = values
	return nil
}

// SetPersonal заменяет личные данные.
func (a *Aggregator) SetPersonal(p models.PersonalInfo) {
	a.mu.Lock()
	a.personal = p
	a.mu.Unlock()
}

// SetLanguages задаёт список языков как текст, по одному языку на строку.
func (a *Aggregator) SetLanguages(text string) {
	a.mu.Lock()
	a.languages = text
	a.mu.Unlock()
}

// SetJobDescription задаёт текст описания вакансии.
func (a *Aggregator) SetJobDescription(text string) {
	a.mu.Lock()
	a.jobDescription = text
	a.mu.Unlock()
}

// JobDescription возвращает описание вакансии без пробелов по краям.
func (a *Aggregator) JobDescription() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return strings.TrimSpace(a.jobDescription)
}

// Len возвращает количество записей вида kind.
func (a *Aggregator) Len(kind Kind) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch kind {
	case KindWork:
		return len(a.workOrder)
	case KindEducation:
		return len(a.educationOrder)
	default:
		return 0
	}
}

// View возвращает снимок формы. Метки вычисляются по позиции и длине списка
// в момент вызова и нигде не хранятся.
func (a *Aggregator) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	view := View{
		PersonalInfo:   a.personal,
		Work:           make([]WorkEntry, 0, len(a.workOrder)),
		Education:      make([]EducationEntry, 0, len(a.educationOrder)),
		Languages:      a.languages,
		JobDescription: a.jobDescription,
	}
	n := len(a.workOrder)
	for i, id := range a.workOrder {
		view.Work = append(view.Work, WorkEntry{
			ID:     id,
			Label:  WorkLabel(i+1, n),
			Values: a.work[id].values,
		})
	}
	for i, id := range a.educationOrder {
		view.Education = append(view.Education, EducationEntry{
			ID:     id,
			Label:  EducationLabel(i + 1),
			Values: a.education[id].values,
		})
	}
	return view
}

// Serialize собирает исходящий payload. Записи без названия компании или без
// учебного заведения молча отбрасываются.
func (a *Aggregator) Serialize() models.FormPayload {
	a.mu.Lock()
	defer a.mu.Unlock()

	payload := models.FormPayload{
		PersonalInfo: models.PersonalInfo{
			Name:     strings.TrimSpace(a.personal.Name),
			Email:    strings.TrimSpace(a.personal.Email),
			Phone:    strings.TrimSpace(a.personal.Phone),
			Address:  strings.TrimSpace(a.personal.Address),
			LinkedIn: strings.TrimSpace(a.personal.LinkedIn),
		},
		WorkExperience: make([]models.WorkExperience, 0, len(a.workOrder)),
		Education:      make([]models.Education, 0, len(a.educationOrder)),
		Languages:      splitLines(a.languages),
		JobDescription: strings.TrimSpace(a.jobDescription),
	}

	for _, id := range a.workOrder {
		v := a.work[id].values
		company := strings.TrimSpace(v.Company)
		if company == "" {
			continue
		}
		payload.WorkExperience = append(payload.WorkExperience, models.WorkExperience{
			Company:   company,
			Location:  strings.TrimSpace(v.Location),
			StartDate: strings.TrimSpace(v.StartDate),
			EndDate:   strings.TrimSpace(v.EndDate),
		})
	}

	for _, id := range a.educationOrder {
		v := a.education[id].values
		school := strings.TrimSpace(v.School)
		if school == "" {
			continue
		}
		payload.Education = append(payload.Education, models.Education{
			School:   school,
			Location: strings.TrimSpace(v.Location),
			Degree:   strings.TrimSpace(v.Degree),
			Year:     strings.TrimSpace(v.Year),
			Level:    strings.TrimSpace(v.Level),
		})
	}

	return payload
}

func splitLines(text string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Restore заменяет содержимое формы сохранёнными данными. Оба списка и счётчики
// очищаются, затем записи добавляются в исходном порядке. Пустая категория
// получает ровно одну пустую запись. Описание вакансии и языки меняются, только
// если в сохранённых данных они не пустые.
func (a *Aggregator) Restore(saved models.FormPayload) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.personal = saved.PersonalInfo
	if saved.JobDescription != "" {
		a.jobDescription = saved.JobDescription
	}
	if len(saved.Languages) > 0 {
		a.languages = strings.Join(saved.Languages, "\n")
	}

	a.clearEntries()

	if len(saved.WorkExperience) > 0 {
		for _, exp := range saved.WorkExperience {
			a.addWork(exp)
		}
	} else {
		a.addWork(models.WorkExperience{})
	}

	if len(saved.Education) > 0 {
		for _, edu := range saved.Education {
			a.addEducation(edu)
		}
	} else {
		a.addEducation(models.Education{})
	}

	a.log.Debug("form restored",
		slog.Int("work_entries", len(a.workOrder)),
		slog.Int("education_entries", len(a.educationOrder)),
	)
}

// Reset очищает все поля и засевает списки записями по умолчанию.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.personal = models.PersonalInfo{}
	a.languages = ""
	a.jobDescription = ""
	a.clearEntries()

	for range a.workDefaults {
		a.addWork(models.WorkExperience{})
	}
	for range a.educationDefaults {
		a.addEducation(models.Education{})
	}
}

func (a *Aggregator) clearEntries() {
	a.workOrder = nil
	a.work = make(map[int]*workView)
	a.workSeq = 0

	a.educationOrder = nil
	a.education = make(map[int]*educationView)
	a.educationSeq = 0
}
