// Package validate holds the process-wide struct validator.
// Field names in errors follow json tags so messages match the wire shape.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError.
type FieldError = validator.FieldError

var (
	once  sync.Once
	v     *validator.Validate
	trans ut.Translator
)

func initValidator() {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ = uni.GetTranslator("en")

		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)
	})
}

// Get returns the validator singleton.
func Get() *validator.Validate {
	initValidator()
	return v
}

// Struct validates s and returns the individual field errors, or nil.
// A non-validation error (e.g. s is not a struct) is returned as the second value.
func Struct(s any) ([]FieldError, error) {
	err := Get().Struct(s)
	if err == nil {
		return nil, nil
	}
	var ves validator.ValidationErrors
	if errors.As(err, &ves) {
		out := make([]FieldError, len(ves))
		for i, fe := range ves {
			out[i] = fe
		}
		return out, nil
	}
	return nil, err
}

// Message returns the English message for a field error.
func Message(fe FieldError) string {
	initValidator()
	return fe.Translate(trans)
}

// Messages flattens field errors into "field: message" strings.
func Messages(fes []FieldError) []string {
	out := make([]string, len(fes))
	for i, fe := range fes {
		out[i] = Message(fe)
	}
	return out
}
