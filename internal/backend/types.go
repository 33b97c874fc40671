package backend

import (
	"encoding/json"

	"github.com/magabrotheeeer/resume-builder/internal/models"
)

// envelope общие поля любого ответа API.
type envelope struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	NeedsPayment bool   `json:"needs_payment"`
}

type analyzeRequest struct {
	JobDescription string `json:"job_description"`
}

type analyzeResponse struct {
	Keywords        []string `json:"keywords"`
	SuggestedSkills []string `json:"suggested_skills"`
}

type generateRequest struct {
	UserData       models.FormPayload `json:"user_data"`
	JobDescription string             `json:"job_description"`
	Email          string             `json:"email"`
}

type loadResponse struct {
	Data json.RawMessage `json:"data"`
}

type keywordsResponse struct {
	Keywords []string `json:"keywords"`
	Total    int      `json:"total"`
}

type emailRequest struct {
	Email string `json:"email"`
}

// UserStatus запись пользователя в ответах user/register и user/status.
// Старые версии API вместо free_used присылают free_generations_used и needs_payment.
type UserStatus struct {
	Email               string `json:"email"`
	IsPaid              bool   `json:"is_paid"`
	FreeUsed            bool   `json:"free_used"`
	CanGenerate         bool   `json:"can_generate"`
	FreeGenerationsUsed int    `json:"free_generations_used,omitempty"`
	NeedsPayment        bool   `json:"needs_payment,omitempty"`
}

// Entitlement переводит ответ сервера в клиентскую запись. CanGenerate берётся
// с сервера как есть.
func (u UserStatus) Entitlement(email string) models.Entitlement {
	if u.Email != "" {
		email = u.Email
	}
	freeUsed := u.FreeUsed || u.NeedsPayment || (!u.IsPaid && !u.CanGenerate)
	return models.Entitlement{
		Email:       email,
		IsPaid:      u.IsPaid,
		FreeUsed:    freeUsed,
		CanGenerate: u.CanGenerate,
	}
}

type userResponse struct {
	User *UserStatus `json:"user"`
}

// StripeSession ответ на создание Stripe checkout-сессии.
type StripeSession struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
	PublicKey   string `json:"public_key"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

type orderRequest struct {
	OrderID string `json:"order_id"`
}

// Verification результат проверки оплаты после редиректа.
type Verification struct {
	Paid   bool   `json:"paid"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

type paypalOrderResponse struct {
	ApprovalURL string `json:"approval_url"`
	OrderID     string `json:"order_id"`
}

type coingateOrderResponse struct {
	PaymentURL string `json:"payment_url"`
}

// PageView метаданные просмотра страницы для analytics/track.
type PageView struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer,omitempty"`
	VisitorID string `json:"visitor_id,omitempty"`
}

// Event событие использования для analytics/event.
type Event struct {
	Event     string         `json:"event"`
	Email     string         `json:"email,omitempty"`
	VisitorID string         `json:"visitor_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
