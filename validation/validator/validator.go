// Package validator turns binding validation failures into friendly field messages.
package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// errorMessages maps validation tags to message formats.
var errorMessages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
}

// parseMessage constructs a friendly error message for a single field error.
func parseMessage(e validator.FieldError) string {
	field := e.Field()
	if msg, ok := errorMessages[e.Tag()]; ok {
		switch {
		case e.Param() != "":
			return fmt.Sprintf(msg, field, e.Param())
		default:
			return fmt.Sprintf(msg, field)
		}
	}
	return fmt.Sprintf("The field '%s' is invalid.", field)
}

// Messages converts a binding error into per-field messages.
// Non-validation errors collapse into a single "body" entry.
func Messages(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["body"] = "The request body is malformed."
		return out
	}

	for _, e := range verrs {
		out[e.Field()] = parseMessage(e)
	}
	return out
}
