package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the request validator. Field names in error reports
// use the json tag, matching what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldErrors translates a validator error into field-scoped messages.
// The validator reports every failing field, so one submission yields the
// complete set of problems. Non-validation errors map to a single
// request-level entry.
func FieldErrors(err error) map[string][]string {
	fieldErrors := make(map[string][]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		fieldErrors["request"] = []string{"invalid request"}
		return fieldErrors
	}

	for _, fe := range validationErrs {
		field := fe.Field()
		fieldErrors[field] = append(fieldErrors[field], tagMessage(fe))
	}
	return fieldErrors
}

// tagMessage maps a validation tag to a user-facing message.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	case "eqfield":
		if fe.Param() == "Password" {
			return "Passwords do not match."
		}
		return "Must match " + fe.Param() + "."
	default:
		return "This value is invalid."
	}
}
