package utils

import (
	"strings"

	"github.com/badoux/checkmail"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError is one field-level validation failure, returned to the client
// inside the 400 payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateStruct checks struct tags and returns every failing field.
func ValidateStruct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fields []FieldError
	for _, err := range err.(validator.ValidationErrors) {
		field := strings.ToLower(err.Field()[:1]) + err.Field()[1:]
		tag := err.Tag()
		param := err.Param()

		var msg string
		switch tag {
		case "required":
			msg = field + " is required"
		case "min":
			msg = field + " must be at least " + param + " characters"
		case "max":
			msg = field + " must be at most " + param + " characters"
		case "email":
			msg = field + " must be a valid email"
		case "oneof":
			msg = field + " must be one of: " + param
		default:
			msg = field + " is invalid"
		}
		fields = append(fields, FieldError{Field: field, Message: msg})
	}
	return fields
}

// ValidateEmail applies a stricter format check than the struct tag.
func ValidateEmail(email string) error {
	return checkmail.ValidateFormat(email)
}
