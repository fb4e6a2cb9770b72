// Package validation contains the logic for validating request data.
//
// It uses the `validator` library to enforce rules (like required
// fields or length limits) declared in struct tags, and extracts
// validation failures into field-level errors the client can act on.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"personscrud/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// The usual pattern: define a request struct with validator tags
// (`validate:"required,max=100"`) and implement Validate() by running
// validator.Struct on the receiver.
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a validation issue that cannot be
// expressed with validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that
// satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind populates the payload from body and path params; payload
//     must be a pointer.
//  2. payload.Validate applies the validation rules.
//  3. Failures become a 400 *errs.HTTPError with field-level errors.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Request body could not be parsed", false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// validateStruct runs v.Validate and extracts field errors on failure.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		customValidationErrors, ok := err.(CustomValidationErrors)
		if !ok {
			// Not a recognized validation error type; surface a single
			// generic entry rather than panicking on an assertion.
			return "Validation failed", []errs.FieldError{{Field: "", Error: err.Error()}}
		}
		for _, cerr := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: cerr.Field,
				Error: cerr.Message,
			})
		}
	}

	for _, verr := range validationErrors {
		field := strings.ToLower(verr.Field())
		var msg string

		switch verr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min means minimum length for strings, minimum value otherwise.
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", verr.Param())
			}

		case "max":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", verr.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", verr.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", verr.Param())

		default:
			if verr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, verr.Tag(), verr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, verr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}
