// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Rule file errors.
	ErrConfigNotFound    = errors.New("rule configuration not found")
	ErrConfigParse       = errors.New("rule configuration could not be parsed")
	ErrInvalidMatchLevel = errors.New("invalid match level")
	ErrUnknownCategory   = errors.New("unknown scale category")
	ErrConditionSyntax   = errors.New("condition syntax error")

	// Classification errors.
	ErrPredicateEval = errors.New("predicate evaluation failed")
	ErrNoRecords     = errors.New("no records to classify")

	// Spreadsheet errors.
	ErrMissingColumn     = errors.New("missing required column")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrInvalidUnit       = errors.New("invalid data unit")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage returns the message meant for the operator if err carries one.
func UserMessage(err error) (string, bool) {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage, true
	}
	return "", false
}
