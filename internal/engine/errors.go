package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected while driving ticks.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Tick is the clock position when the error was raised.
	Tick int64

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeNotSettled indicates tasks were still pending after the tick budget.
	ErrCodeNotSettled RuntimeErrorCode = "NOT_SETTLED"

	// ErrCodeStopped indicates the framework no longer accepts work.
	ErrCodeStopped RuntimeErrorCode = "STOPPED"

	// ErrCodeTaskPanic indicates a scheduled task panicked.
	ErrCodeTaskPanic RuntimeErrorCode = "TASK_PANIC"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s (tick=%d)", e.Code, e.Message, e.Tick)
}

// IsNotSettled reports whether err is a settle budget error.
func IsNotSettled(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNotSettled
	}
	return false
}

// NewNotSettledError creates a RuntimeError for an exhausted settle budget.
func NewNotSettledError(tick int64, pending, budget int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNotSettled,
		Message: fmt.Sprintf("%d task(s) still pending after %d ticks", pending, budget),
		Tick:    tick,
		Details: map[string]string{
			"pending": fmt.Sprintf("%d", pending),
			"budget":  fmt.Sprintf("%d", budget),
		},
	}
}
