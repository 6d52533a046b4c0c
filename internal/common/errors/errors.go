package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorCode identifies a failure class of the transfer workflow.
type ErrorCode string

const (
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodePrecondition ErrorCode = "PRECONDITION_FAILED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConnection   ErrorCode = "CONNECTION_FAILED"
	ErrCodeTelegramAPI  ErrorCode = "TELEGRAM_API_ERROR"
	ErrCodeAuthProof    ErrorCode = "AUTH_PROOF_ERROR"
	ErrCodeLedger       ErrorCode = "LEDGER_ERROR"
)

// AppError is the typed error carried through the workflow and mapped to HTTP
// responses at the delivery layer.
type AppError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Stack   []string               `json:"stack,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value pair to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   getStackTrace(),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// NewValidationError reports a missing or malformed request field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewUnauthorizedError reports a rejected shared secret.
func NewUnauthorizedError(reason string) *AppError {
	return New(ErrCodeUnauthorized, fmt.Sprintf("Unauthorized: %s", reason))
}

// NewPreconditionError reports that the escrow account is not yet the channel
// creator and the transfer cannot proceed.
func NewPreconditionError(message string) *AppError {
	return New(ErrCodePrecondition, message)
}

// NewNotFoundError reports an unresolvable handle.
func NewNotFoundError(resource string, handle string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found: %s", resource, handle)).
		WithDetail("resource", resource).
		WithDetail("handle", handle)
}

// NewConnectionError reports that an authenticated session could not be
// established.
func NewConnectionError(message string, err error) *AppError {
	return Wrap(err, ErrCodeConnection, message)
}

// NewTelegramAPIError reports a remote call rejected for any reason other than
// the dedicated classes above.
func NewTelegramAPIError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeTelegramAPI, fmt.Sprintf("Telegram API operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// NewAuthProofError reports a misconfigured secret or a rejected password
// proof during the creator handoff.
func NewAuthProofError(message string, err error) *AppError {
	return Wrap(err, ErrCodeAuthProof, message)
}

// NewLedgerError reports a failed job/listing record operation.
func NewLedgerError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeLedger, fmt.Sprintf("Ledger operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError unwraps err to an AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error to the response status of the delivery layer.
// Unresolvable handles and remote failures deliberately surface as 500: the
// dispatcher retries those, while 400/401 responses are terminal for it.
func HTTPStatus(err error) int {
	appErr, ok := AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeValidation, ErrCodePrecondition:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
