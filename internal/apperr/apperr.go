// Package apperr defines the error taxonomy shared by the ledger services.
// Every error that reaches a caller maps to one stable Code.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeInvalidOperation  Code = "INVALID_OPERATION"
	CodeUnsupportedPair   Code = "UNSUPPORTED_PAIR"
	CodeBusy              Code = "BUSY"
	CodeUnbalanced        Code = "UNBALANCED"
	CodeInternal          Code = "INTERNAL"
)

// Error is a business error with a stable code and a human readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) ErrorCode() Code {
	return e.Code
}

type coder interface {
	ErrorCode() Code
}

// CodeOf returns the code of the first coded error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeInternal
}

// Coded reports whether err's chain already carries a code.
func Coded(err error) bool {
	var c coder
	return errors.As(err, &c)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func newf(code Code, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Error {
	return newf(CodeValidation, nil, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(CodeNotFound, nil, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(CodeForbidden, nil, format, args...)
}

func InvalidOperation(format string, args ...any) *Error {
	return newf(CodeInvalidOperation, nil, format, args...)
}

func UnsupportedPair(from, to string) *Error {
	return newf(CodeUnsupportedPair, nil, "unsupported currency pair: %s to %s", from, to)
}

// Busy reports a lock wait that ran out of time; the caller may retry.
func Busy(err error) *Error {
	return newf(CodeBusy, err, "the account is busy with another operation, please retry")
}

func Unbalanced(txID string, sum decimal.Decimal) *Error {
	return newf(CodeUnbalanced, nil, "transaction %s is not balanced: sum %s, expected 0.00", txID, sum.StringFixed(2))
}

// Internal hides err behind a generic message; err stays reachable through
// Unwrap for logging.
func Internal(err error) *Error {
	return newf(CodeInternal, err, "internal error")
}

// InsufficientFundsError reports a debit that would take an account below zero.
type InsufficientFundsError struct {
	AccountID string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: account %s has balance %s, but %s was requested",
		e.AccountID, e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientFundsError) ErrorCode() Code {
	return CodeInsufficientFunds
}

func InsufficientFunds(accountID string, balance, requested decimal.Decimal) *InsufficientFundsError {
	return &InsufficientFundsError{AccountID: accountID, Balance: balance, Requested: requested}
}
