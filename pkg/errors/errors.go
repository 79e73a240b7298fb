package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError for anything else.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// FundsDetail is what an INSUFFICIENT_FUNDS error knows about the shortfall.
type FundsDetail struct {
	Balance  decimal.Decimal
	Required decimal.Decimal
}

func (d *FundsDetail) Error() string {
	return fmt.Sprintf("balance %s, required %s", d.Balance.String(), d.Required.String())
}

// NewInsufficientFunds reports that balance does not cover required.
func NewInsufficientFunds(balance, required decimal.Decimal) *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientFunds,
		Message: "insufficient balance",
		Err:     &FundsDetail{Balance: balance, Required: required},
	}
}

// FundsOf returns the shortfall carried by err, if any.
func FundsOf(err error) (*FundsDetail, bool) {
	var detail *FundsDetail
	if stderrors.As(err, &detail) {
		return detail, true
	}
	return nil, false
}

// Common error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeInsufficientFunds = "INSUFFICIENT_FUNDS"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
)
