package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// NewValidator builds the shared request validator. decimal.Decimal fields
// are validated through their float value so the numeric tags (gt, gte)
// apply to them as well.
func NewValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report the JSON field name, not the Go field name, in messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return validate
}

// ValidationErrorMessage turns the first validation failure into a
// field-identifying message for the 400 response.
func ValidationErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field: %s", fe.Field())
	case "gt":
		return fmt.Sprintf("Field %s must be greater than %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Field %s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("Invalid value for field: %s", fe.Field())
	}
}
