// Package models содержит доменные структуры сессии: запись о правах доступа
// пользователя, данные формы резюме и конфигурацию оплаты.
package models

// State логическое состояние доступа пользователя к генерации резюме.
type State string

const (
	// StateNew: email пользователя ещё не известен.
	StateNew State = "new"
	// StateTrialAvailable: бесплатная генерация ещё не использована.
	StateTrialAvailable State = "trial_available"
	// StateLocked: бесплатная генерация использована, оплаты нет.
	StateLocked State = "locked"
	// StatePremium: оплачен безлимитный доступ.
	StatePremium State = "premium"
)

// Origin показывает, откуда взято текущее значение Entitlement.
type Origin string

const (
	// OriginServer: значение пришло с сервера и считается подтверждённым.
	OriginServer Origin = "server"
	// OriginPredicted: значение предсказано локально и ждёт подтверждения сервером.
	OriginPredicted Origin = "predicted"
)

// Entitlement клиентское зеркало серверной записи о правах пользователя.
type Entitlement struct {
	Email       string `json:"email"`
	IsPaid      bool   `json:"is_paid"`
	FreeUsed    bool   `json:"free_used"`
	CanGenerate bool   `json:"can_generate"`
}

// State вычисляет логическое состояние по полям записи.
func (e Entitlement) State() State {
	switch {
	case e.Email == "":
		return StateNew
	case e.IsPaid:
		return StatePremium
	case e.FreeUsed:
		return StateLocked
	default:
		return StateTrialAvailable
	}
}

// DeriveCanGenerate возвращает значение CanGenerate, согласованное с IsPaid и FreeUsed.
func DeriveCanGenerate(isPaid, freeUsed bool) bool {
	return isPaid || !freeUsed
}
