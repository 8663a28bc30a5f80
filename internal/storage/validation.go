package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
	ErrRunNotFound  = errors.New("run not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun validates a run before it is stored.
func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.StartedAt.IsZero() {
		return fmt.Errorf("%w: missing start time", ErrInvalidRun)
	}
	if run.InputPath == "" {
		return fmt.Errorf("%w: missing input path", ErrInvalidRun)
	}
	if run.OutputPath == "" {
		return fmt.Errorf("%w: missing output path", ErrInvalidRun)
	}
	if run.RulesPath == "" {
		return fmt.Errorf("%w: missing rules path", ErrInvalidRun)
	}
	if run.RecordCount < 0 || run.RuleCount < 0 {
		return fmt.Errorf("%w: negative counts", ErrInvalidRun)
	}
	for level := range run.Counts {
		if level != model.Unmatched && !level.Valid() {
			return fmt.Errorf("%w: unknown result %d", ErrInvalidRun, int(level))
		}
	}
	return nil
}
