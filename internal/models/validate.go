package models

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/form_payload.schema.json
var formPayloadSchema []byte

// ErrInvalidPayload возвращается, если сохранённые данные не соответствуют схеме формы.
var ErrInvalidPayload = errors.New("payload does not match form schema")

// ValidateFormPayload проверяет сырой JSON сохранённой формы по встроенной схеме.
func ValidateFormPayload(raw []byte) error {
	const op = "models.ValidateFormPayload"

	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(formPayloadSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s: %w: %s", op, ErrInvalidPayload, strings.Join(msgs, "; "))
}
