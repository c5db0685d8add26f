package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"physical-ai-textbook-be/internal/pkg/security"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return security.CheckPasswordStrength(fl.Field().String()) == nil
	})

	return v
}

// ValidationError maps a request field to the rule it broke.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ValidateStruct runs the validate tags on v.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field()] = describe(e)
	}
	return &ValidationError{Errors: fields}
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "password":
		if err := security.CheckPasswordStrength(fmt.Sprint(e.Value())); err != nil {
			return err.Error()
		}
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	}
	return fmt.Sprintf("failed on '%s' tag", e.Tag())
}
