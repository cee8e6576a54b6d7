package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeForbidden  ErrorType = "FORBIDDEN"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeInternal   ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeLoginRequired    ErrorCode = "LOGIN_REQUIRED"
	ErrCodeLoginTooLong     ErrorCode = "LOGIN_TOO_LONG"
	ErrCodeInvalidKind      ErrorCode = "INVALID_PUNCH_KIND"
	ErrCodeInvalidMoment    ErrorCode = "INVALID_MOMENT"

	ErrCodeUserNotFound ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserInactive ErrorCode = "USER_INACTIVE"

	ErrCodeDuplicatePunch ErrorCode = "DUPLICATE_PUNCH"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Messages surfaced verbatim by the kiosk, so they stay in the operators' language.
const (
	MsgInvalidBody          = "corpo da requisição inválido"
	MsgLoginAndKindRequired = "login e tipo são obrigatórios"
	MsgLoginRequired        = "login é obrigatório"
	MsgLoginTooLong         = "login muito longo"
	MsgInvalidKind          = "tipo inválido"
	MsgInvalidMoment        = "momento inválido"
	MsgUserNotFound         = "usuário não encontrado"
	MsgUserInactive         = "usuário inativo"
	MsgDuplicatePunch       = "Já existe essa marcação (tipo) para este usuário nesse dia"
	MsgInternal             = "Erro interno"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidBody   = NewValidationError(MsgInvalidBody, ErrCodeInvalidBody)
	ErrLoginRequired = NewValidationError(MsgLoginRequired, ErrCodeLoginRequired)
	ErrInvalidKind   = NewValidationError(MsgInvalidKind, ErrCodeInvalidKind)
	ErrInvalidMoment = NewValidationError(MsgInvalidMoment, ErrCodeInvalidMoment)

	ErrUserNotFound = NewNotFoundError(MsgUserNotFound, ErrCodeUserNotFound)
	ErrUserInactive = NewForbiddenError(MsgUserInactive, ErrCodeUserInactive)

	ErrDuplicatePunch = NewConflictError(MsgDuplicatePunch, ErrCodeDuplicatePunch)
)

// IsAppError unwraps err until it finds an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the envelope every failed request is answered with.
type Response struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	Code  ErrorCode `json:"code,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, Response) {
	return e.StatusCode, Response{OK: false, Error: e.Message, Code: e.Code}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
