package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/unienroll/internal/pkg/apperrors"
)

var (
	defaultValidate *validator.Validate
	once            sync.Once
)

// New builds a validator with the enrollment-specific tags registered.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	Register(v)
	return v
}

// Register adds the "weekday" and "clock" tags and reports fields by their json name.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return IsWeekday(fl.Field().String())
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
}

// Default returns the shared validator instance
func Default() *validator.Validate {
	once.Do(func() {
		defaultValidate = New()
	})
	return defaultValidate
}

// Struct validates s and converts failures into a validation error whose
// message lists every offending field.
func Struct(s interface{}) error {
	err := Default().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, FormatFieldError(fe))
	}
	return apperrors.NewValidationError(strings.Join(msgs, "; "))
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		if e.Kind() == reflect.Slice {
			return field + " cannot be empty"
		}
		return field + " is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return field + " must contain at least " + e.Param() + " item(s)"
		}
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "gt":
		return field + " must be greater than " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "weekday":
		return field + " must be one of: " + strings.Join(Weekdays, ", ")
	case "clock":
		return field + " must be a time in HH:MM format"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
