// Package validation checks request structs with validator/v10 and reports failures as apierrors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/emotion-log/internal/apierrors"
)

// Validator wraps go-playground/validator. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New creates a validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// Validate returns nil or an *apierrors.APIError of kind validation with one detail per field.
func (v *Validator) Validate(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate: %w", err)
	}

	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = message(fe)
	}

	return apierrors.NewErrValidation("validation failed", details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date in " + fe.Param() + " format"
	default:
		return "is invalid"
	}
}
