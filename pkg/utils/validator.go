package utils

import (
	stderrors "errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bell24h/supplierrisk/pkg/errors"
)

// defaultValidator holds the singleton instance of the validator.
var defaultValidator = validator.New()

// ValidateStruct validates a struct using the default validator.
// It returns a formatted invalid_request AppError if validation fails.
func ValidateStruct(s interface{}) errors.AppError {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.ErrInvalidRequest(err.Error())
	}

	appErr := errors.ErrInvalidRequest(describe(validationErrors[0]))
	for _, fe := range validationErrors {
		appErr.WithMetadata(LowerCamel(fe.Field()), formatValidationError(fe))
	}
	return appErr
}

func describe(fe validator.FieldError) string {
	return fmt.Sprintf("field '%s' %s", LowerCamel(fe.Field()), formatValidationError(fe))
}

// formatValidationError creates a user-friendly error message for a validation error.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
