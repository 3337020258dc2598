// Package validation wires custom binding tags into gin's validator and turns
// binding failures into field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/bonos-api/pkg/apperror"
	"github.com/sangkips/bonos-api/pkg/rut"
	"github.com/shopspring/decimal"
)

var once sync.Once

// Register adds the "rut" and "percent" tags and reports field names by their
// json tag. Decimal fields are validated through their exact string form.
// It is safe to call more than once.
func Register() error {
	var err error
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected validator engine")
			return
		}
		v.RegisterTagNameFunc(jsonName)
		v.RegisterCustomTypeFunc(decimalString, decimal.Decimal{})
		if err = v.RegisterValidation("rut", validRUT); err != nil {
			return
		}
		err = v.RegisterValidation("percent", validPercent)
	})
	return err
}

func validRUT(fl validator.FieldLevel) bool {
	return rut.Valid(fl.Field().String())
}

var hundred = decimal.NewFromInt(100)

// validPercent accepts whole percent in (0, 100].
func validPercent(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive() && d.LessThanOrEqual(hundred)
}

func decimalString(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// FieldErrors converts validator errors into field errors. It returns nil
// when err did not come from the validator.
func FieldErrors(err error) []apperror.FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid e-mail address"
	case "rut":
		return "Must be a valid RUT"
	case "percent":
		return "Must be greater than 0 and at most 100"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "eqfield":
		return "Must match " + strings.ToLower(fe.Param())
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "datetime":
		return "Must be a date in YYYY-MM-DD format"
	}
	return "Is invalid"
}
