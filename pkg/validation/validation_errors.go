package validation

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Contact form field names as they appear on the wire
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldMessage = "message"
)

// User-facing messages shared by the API and the form client
const (
	MsgRequiredFields = "Vyplňte prosím všechna povinná pole."
	MsgInvalidEmail   = "Zadejte prosím platnou emailovou adresu."
)

// tooLongTemplates carry the Czech grammatical gender of each field label
var tooLongTemplates = map[string]string{
	FieldName:    "Jméno je příliš dlouhé (maximum %d znaků).",
	FieldEmail:   "Email je příliš dlouhý (maximum %d znaků).",
	FieldPhone:   "Telefon je příliš dlouhý (maximum %d znaků).",
	FieldMessage: "Zpráva je příliš dlouhá (maximum %d znaků).",
}

// TooLongMessage returns the message naming the ceiling of a field.
func TooLongMessage(field string, limit int) string {
	if tmpl, ok := tooLongTemplates[field]; ok {
		return fmt.Sprintf(tmpl, limit)
	}
	return fmt.Sprintf("%s: maximum %d znaků.", field, limit)
}

// FormatFieldError converts a validator error for a single contact field into
// its user-facing message.
func FormatFieldError(field string, err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	e := validationErrors[0]
	switch e.Tag() {
	case "required":
		return MsgRequiredFields
	case "max":
		limit, convErr := strconv.Atoi(e.Param())
		if convErr != nil {
			return fmt.Sprintf("%s: Validace selhala (%s)", field, e.Tag())
		}
		return TooLongMessage(field, limit)
	case "contact_email", "email":
		return MsgInvalidEmail
	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s: Validace selhala (%s)", field, e.Tag())
	}
}
