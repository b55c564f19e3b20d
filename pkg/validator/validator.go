package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns the shared request validator. Structs declare rules with
// `validate` tags.
func New() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// Humanize flattens validator errors into one readable message.
func Humanize(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must not exceed %s", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
