// Package backend реализует HTTP JSON контракт внешнего API генератора резюме:
// анализ вакансии, генерацию PDF, сохранение данных, пользователей, оплату и аналитику.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/resume-builder/internal/models"
)

// Client клиент API. Повторов нет: каждую неудачу обрабатывает вызывающий код.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для baseURL (например http://localhost:5000/api).
// Нулевой timeout оставляет таймауты транспорта по умолчанию.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// doJSON выполняет запрос и декодирует ответ в out. Ответы с success=false или
// статусом >= 400 превращаются в *APIError.
func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s: %w", op, newAPIError(resp.StatusCode, envelope{Error: resp.Status}))
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return fmt.Errorf("%s: %w", op, newAPIError(resp.StatusCode, env))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// AnalyzeJob отправляет описание вакансии на анализ ключевых слов.
func (c *Client) AnalyzeJob(ctx context.Context, jobDescription string) (*models.JobAnalysis, error) {
	const op = "backend.AnalyzeJob"
	var resp analyzeResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/analyze-job", analyzeRequest{JobDescription: jobDescription}, &resp); err != nil {
		return nil, err
	}
	return &models.JobAnalysis{Keywords: resp.Keywords, SuggestedSkills: resp.SuggestedSkills}, nil
}

// GenerateResume запрашивает PDF. При успехе возвращается тело ответа как есть,
// при отказе возвращается *APIError, где NeedsPayment выставлен по needs_payment или статусу 402.
func (c *Client) GenerateResume(ctx context.Context, payload models.FormPayload, email string) ([]byte, error) {
	const op = "backend.GenerateResume"

	req, err := c.newRequest(ctx, http.MethodPost, "/generate-resume", generateRequest{
		UserData:       payload,
		JobDescription: payload.JobDescription,
		Email:          email,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/pdf, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return raw, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env = envelope{Error: "Unknown error"}
	}
	return nil, fmt.Errorf("%s: %w", op, newAPIError(resp.StatusCode, env))
}

// SaveData сохраняет сериализованную форму.
func (c *Client) SaveData(ctx context.Context, payload models.FormPayload) error {
	const op = "backend.SaveData"
	return c.doJSON(ctx, op, http.MethodPost, "/save-data", payload, nil)
}

// LoadData возвращает сохранённую форму как сырой JSON, чтобы вызывающий код мог
// проверить её схему. Пустой результат даёт nil без ошибки.
func (c *Client) LoadData(ctx context.Context) (json.RawMessage, error) {
	const op = "backend.LoadData"
	var resp loadResponse
	if err := c.doJSON(ctx, op, http.MethodGet, "/load-data", nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, nil
	}
	return resp.Data, nil
}

// AllKeywords возвращает полный справочник ключевых слов.
func (c *Client) AllKeywords(ctx context.Context) (*models.KeywordCatalog, error) {
	const op = "backend.AllKeywords"
	var resp keywordsResponse
	if err := c.doJSON(ctx, op, http.MethodGet, "/all-keywords", nil, &resp); err != nil {
		return nil, err
	}
	return &models.KeywordCatalog{Keywords: resp.Keywords, Total: resp.Total}, nil
}

// RegisterUser регистрирует пользователя или возвращает существующего.
func (c *Client) RegisterUser(ctx context.Context, email string) (*UserStatus, error) {
	const op = "backend.RegisterUser"
	return c.user(ctx, op, "/user/register", email)
}

// UserStatus возвращает текущие права пользователя.
func (c *Client) UserStatus(ctx context.Context, email string) (*UserStatus, error) {
	const op = "backend.UserStatus"
	return c.user(ctx, op, "/user/status", email)
}

func (c *Client) user(ctx context.Context, op, path, email string) (*UserStatus, error) {
	var resp userResponse
	if err := c.doJSON(ctx, op, http.MethodPost, path, emailRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%s: response without user", op)
	}
	return resp.User, nil
}

// PaymentConfig возвращает цену и публичные идентификаторы провайдеров.
func (c *Client) PaymentConfig(ctx context.Context) (*models.PaymentConfig, error) {
	const op = "backend.PaymentConfig"
	var resp models.PaymentConfig
	if err := c.doJSON(ctx, op, http.MethodGet, "/payment/config", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateStripeSession создаёт checkout-сессию Stripe.
func (c *Client) CreateStripeSession(ctx context.Context, email string) (*StripeSession, error) {
	const op = "backend.CreateStripeSession"
	var resp StripeSession
	if err := c.doJSON(ctx, op, http.MethodPost, "/payment/stripe/create-session", emailRequest{Email: email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyStripe проверяет оплату по session_id после редиректа.
func (c *Client) VerifyStripe(ctx context.Context, sessionID string) (*Verification, error) {
	const op = "backend.VerifyStripe"
	var resp Verification
	if err := c.doJSON(ctx, op, http.MethodPost, "/payment/stripe/verify", sessionRequest{SessionID: sessionID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePayPalOrder создаёт заказ PayPal и возвращает ссылку подтверждения.
func (c *Client) CreatePayPalOrder(ctx context.Context, email string) (string, error) {
	const op = "backend.CreatePayPalOrder"
	var resp paypalOrderResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/payment/paypal/create-order", emailRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.ApprovalURL, nil
}

// CapturePayPalOrder списывает подтверждённый заказ PayPal.
func (c *Client) CapturePayPalOrder(ctx context.Context, orderID string) (*Verification, error) {
	const op = "backend.CapturePayPalOrder"
	var resp Verification
	if err := c.doJSON(ctx, op, http.MethodPost, "/payment/paypal/capture-order", orderRequest{OrderID: orderID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCoinGateOrder создаёт криптоплатёж и возвращает ссылку на оплату.
func (c *Client) CreateCoinGateOrder(ctx context.Context, email string) (string, error) {
	const op = "backend.CreateCoinGateOrder"
	var resp coingateOrderResponse
	if err := c.doJSON(ctx, op, http.MethodPost, "/payment/coingate/create-order", emailRequest{Email: email}, &resp); err != nil {
		return "", err
	}
	return resp.PaymentURL, nil
}

// TrackPageView отправляет просмотр страницы. Тело ответа не читается.
func (c *Client) TrackPageView(ctx context.Context, view PageView) error {
	const op = "backend.TrackPageView"
	return c.fire(ctx, op, "/analytics/track", view)
}

// TrackEvent отправляет событие использования. Тело ответа не читается.
func (c *Client) TrackEvent(ctx context.Context, event Event) error {
	const op = "backend.TrackEvent"
	return c.fire(ctx, op, "/analytics/event", event)
}

func (c *Client) fire(ctx context.Context, op, path string, body any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
