package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError flattens validator errors into one short message
// suitable for the API's {"message": ...} error body.
func FormatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email", field))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, e.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", field))
		}
	}

	return strings.Join(parts, "; ")
}

// SanitizeString removes null bytes and trims surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	return s
}
