package service

import (
	"errors"
	"fmt"

	"github.com/smarttasker/api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrTaskNotFound indicates the task does not exist or is owned by
	// another user. The two cases are deliberately indistinguishable.
	ErrTaskNotFound = errors.New("task not found")

	// ErrEmptyText indicates that text required for task generation was empty.
	ErrEmptyText = errors.New("text input is required")

	// ErrGenerationUnavailable indicates the AI service failed while
	// performing a requested (non-best-effort) operation.
	ErrGenerationUnavailable = errors.New("failed to generate tasks from text")
)

// TaskServiceError wraps unexpected errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "update_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// newTaskServiceError wraps an error with operation context.
// Known sentinel errors pass through unwrapped so callers can match them.
func newTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
