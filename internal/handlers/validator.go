package handlers

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"memberfee_app_echo/internal/models"
)

// Validator adapts validator/v10 to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the custom tags and reports fields by their JSON name
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return models.ValidMonth(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Validate returns a readable error for the first failing field
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	return fmt.Errorf("%s", describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "yearmonth":
		return fe.Field() + " must be in YYYY-MM format"
	default:
		return fe.Field() + " is invalid"
	}
}
