// Package config holds the validation rules shared by every token block.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/tonekit/internal/color"
	"github.com/jsvensson/tonekit/internal/contrast"
	"github.com/jsvensson/tonekit/internal/ramp"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// validatorInstance configures and returns the shared validator instance.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("hex6", func(fl validator.FieldLevel) bool {
			_, err := color.ParseHex(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
			return hclsyntax.ValidIdentifier(fl.Field().String())
		})

		_ = v.RegisterValidation("preset", func(fl validator.FieldLevel) bool {
			_, ok := ramp.LookupPreset(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("harmony", func(fl validator.FieldLevel) bool {
			_, err := ramp.ParseHarmonyKind(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("usecase", func(fl validator.FieldLevel) bool {
			_, err := contrast.ParseUseCase(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("wcag", func(fl validator.FieldLevel) bool {
			_, err := contrast.ParseWCAGRating(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// Validate runs struct validation and normalizes the first failure.
func Validate(v any) error {
	return convertValidationError(validatorInstance().Struct(v))
}

// convertValidationError normalizes validator errors into ValidationErrors.
func convertValidationError(err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := hclFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return &ValidationError{Field: field, Message: msg, Err: err}
	}

	return &ValidationError{Field: "tokens", Message: err.Error(), Err: err}
}

// hclFieldName turns a struct namespace like RampBlock.ChromaScale into
// ramp.chroma_scale so messages match the attribute names in the file.
func hclFieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 0 {
		parts[0] = strings.TrimSuffix(parts[0], "Block")
	}
	for i, part := range parts {
		parts[i] = snakeCase(part)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
