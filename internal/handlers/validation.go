package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form names so messages match what the client sent.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name, _, _ := strings.Cut(field.Tag.Get("form"), ","); name != "" && name != "-" {
			return name
		}
		return field.Name
	})
	return v
}

type recipeInput struct {
	Title     string  `form:"title" validate:"required,max=200"`
	Servings  *int    `form:"servings" validate:"omitempty,min=1,max=100"`
	TotalTime *int    `form:"total_time" validate:"omitempty,min=1,max=10080"`
	SourceURL *string `form:"source_url" validate:"omitempty,url"`
}

type tokenInput struct {
	Name  string `form:"name" validate:"required,max=100"`
	Scope string `form:"scope" validate:"oneof=api ical"`
}

// validationError turns the first failed rule into a client-facing message.
func validationError(err error) error {
	var failures validator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return err
	}

	failure := failures[0]
	switch failure.Tag() {
	case "required":
		return fmt.Errorf("%s is required", failure.Field())
	case "max":
		return fmt.Errorf("%s must be at most %s", failure.Field(), failure.Param())
	case "min":
		return fmt.Errorf("%s must be at least %s", failure.Field(), failure.Param())
	case "url":
		return fmt.Errorf("%s must be a valid URL", failure.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", failure.Field(), failure.Param())
	default:
		return fmt.Errorf("%s is invalid", failure.Field())
	}
}
