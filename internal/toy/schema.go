package toy

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json field names ("inStock") instead of Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateCreate checks a create body against the toy schema.
func ValidateCreate(in CreateInput) error {
	return describe(schema().Struct(in))
}

// ValidateUpdate checks the fields present in an update body against the toy schema.
func ValidateUpdate(in UpdateInput) error {
	return describe(schema().Struct(in))
}

// describe flattens validator field errors into "field: rule" messages.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), rule))
	}
	return errors.New(strings.Join(msgs, ", "))
}
