package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their config key rather than the Go name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// FieldError describes one invalid setting.
type FieldError struct {
	Key   string // dotted config key, e.g. "cluster.k"
	Tag   string
	Param string
	Value any
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %v fails %s=%s", e.Key, e.Value, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: %v fails %s", e.Key, e.Value, e.Tag)
}

// ValidationError collects every invalid setting.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		out.Fields = append(out.Fields, FieldError{
			Key:   key,
			Tag:   fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
