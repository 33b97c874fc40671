package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrPaymentRequired сигнал сервера о том, что для генерации нужна оплата.
var ErrPaymentRequired = errors.New("payment required")

// APIError бизнес-отказ или HTTP-ошибка со стороны API.
type APIError struct {
	StatusCode   int
	Message      string
	NeedsPayment bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// Is позволяет проверять отказ через errors.Is(err, ErrPaymentRequired).
func (e *APIError) Is(target error) bool {
	return target == ErrPaymentRequired && e.NeedsPayment
}

func newAPIError(status int, env envelope) *APIError {
	return &APIError{
		StatusCode:   status,
		Message:      env.Error,
		NeedsPayment: env.NeedsPayment || status == http.StatusPaymentRequired,
	}
}
