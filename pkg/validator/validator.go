package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Validator checks structs against their `validate` tags.
type Validator interface {
	Validate(interface{}) error
}

type validator struct {
	engine *playground.Validate
}

// New returns a Validator that reports fields by their json names.
func New() Validator {
	engine := playground.New()
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &validator{engine: engine}
}

// Validate returns nil or an error whose message lists every failing field.
func (v *validator) Validate(obj interface{}) error {
	err := v.engine.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe playground.FieldError) string {
	if fe.Tag() == "oneof" {
		return fmt.Sprintf("`%v` is not a valid enum value for path `%s`", fe.Value(), fe.Field())
	}
	return fmt.Sprintf("%s failed on the %s rule", fe.Field(), fe.Tag())
}
