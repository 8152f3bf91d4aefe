package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors into the exact
// "invalid request: …" messages the API contract promises. The first failing
// field wins; field names are reported in their JSON form.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := snakeCase(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "min":
				return "invalid request: " + field + " must not be empty"
			case "oneof":
				return "invalid request: " + field + " has an unsupported value"
			case "uuid4":
				return "invalid request: " + field + " must be a valid uuid"
			case "gt", "gte":
				return "invalid request: " + field + " is out of range"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// snakeCase converts a Go field name (QRCodeSetID) into its JSON tag form
// (qr_code_set_id).
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Break before an upper rune that starts a new word: previous rune
			// is lower, or next rune is lower (end of an acronym run).
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
