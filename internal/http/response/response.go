// Package response формат JSON-ответов HTTP-поверхности сессии.
//
// Успешный ответ несёт полезную нагрузку в data, ошибочный только текст в
// error. Сообщения валидации собираются из тегов validator, которые
// используют обработчики.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

// Response ответ со статусом и, при успехе, данными.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse тело ошибки; указывается в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// StatusOKWithData оборачивает data успешным статусом.
func StatusOKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error тело ошибки с сообщением msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Error: msg}
}

var tagMessages = map[string]func(validator.FieldError) string{
	"required": func(fe validator.FieldError) string {
		return fmt.Sprintf("field %s is a required field", fe.Field())
	},
	"oneof": func(fe validator.FieldError) string {
		return fmt.Sprintf("field %s must be one of: %s", fe.Field(), fe.Param())
	},
	"max": func(fe validator.FieldError) string {
		return fmt.Sprintf("field %s must be at most %s characters", fe.Field(), fe.Param())
	},
}

// FieldMessage текст одного нарушения валидации.
func FieldMessage(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.ActualTag()]; ok {
		return msg(fe)
	}
	return fmt.Sprintf("field %s is not a valid", fe.Field())
}

// ValidationError собирает все нарушения в одно сообщение через запятую,
// в порядке полей структуры.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, FieldMessage(fe))
	}
	return Response{Status: StatusError, Error: strings.Join(msgs, ", ")}
}
