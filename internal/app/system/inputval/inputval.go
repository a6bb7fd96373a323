// Package inputval validates decoded request payloads.
//
// Payload structs declare their rules with `validate` tags; field problems are
// reported by JSON name so they line up with what the client sent.
package inputval

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/cercadeti/internal/app/system/apierror"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if len(s) != 24 {
				return false
			}
			for _, r := range s {
				if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
					return false
				}
			}
			return true
		})
	})
	return v
}

// Struct validates s and returns the field problems, or nil when s is valid.
func Struct(s any) []apierror.Detail {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierror.Detail{{Path: []string{}, Message: err.Error(), Name: apierror.NameValidation}}
	}
	out := make([]apierror.Detail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apierror.Detail{
			Path:    []string{fe.Field()},
			Message: message(fe),
			Name:    apierror.NameValidation,
		})
	}
	return out
}

// Check validates s and returns a ready-to-write 400 error, or nil.
func Check(s any) error {
	if details := Struct(s); len(details) > 0 {
		if len(details) == 1 {
			return apierror.Validation(details[0].Message, details...)
		}
		return apierror.Validation("", details...)
	}
	return nil
}

// IsValidEmail reports whether s is a plain address (no display name).
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return get().Var(s, "email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " must be defined."
	case "email":
		return fe.Field() + " must be a valid email"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "objectid":
		return fe.Field() + " must be a valid id"
	case "oneof":
		return fe.Field() + " must be one of the following values: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return fe.Field() + " is invalid"
	}
}
