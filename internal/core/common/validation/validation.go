package validation

import (
	"strings"
	"time"
	"unicode/utf8"

	errors "github.com/frahmantamala/timeclock/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) Required(message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, message, code)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return errors.NewValidationFieldError(fv.FieldName, message, code)
			}
		}
		return nil
	})
	return fv
}

// OneOf accepts only the listed values. Empty strings are left to Required.
func (fv *FieldValidator) OneOf(allowed []string, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return errors.NewValidationFieldError(fv.FieldName, message, code)
	})
	return fv
}

// MaxLength bounds a string by characters, not bytes.
func (fv *FieldValidator) MaxLength(max int, message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) > max {
			return errors.NewValidationFieldError(fv.FieldName, message, code)
		}
		return nil
	})
	return fv
}

// Timestamp requires an RFC 3339 instant when the value is present.
func (fv *FieldValidator) Timestamp(message string, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var raw string
		switch v := value.(type) {
		case string:
			raw = v
		case *string:
			if v == nil {
				return nil
			}
			raw = *v
		}
		if raw == "" {
			return nil
		}
		if _, err := time.Parse(time.RFC3339Nano, raw); err != nil {
			return errors.NewValidationFieldError(fv.FieldName, message, code)
		}
		return nil
	})
	return fv
}

// Validate runs the fields in declaration order and stops at the first failing field.
// The returned error carries that field's message and code, plus every violation of
// the field in Details.
func (v *ValidationBuilder) Validate() *errors.AppError {
	for _, field := range v.fields {
		var first *errors.AppError
		var violations []errors.ValidationError

		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if first == nil {
				first = appErr
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				violations = append(violations, details.Errors...)
			} else {
				violations = append(violations, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
		}

		if first != nil {
			return errors.NewValidationError(first.Message, first.Code).
				WithDetails(errors.ValidationErrors{Errors: violations})
		}
	}

	return nil
}
