package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smarttasker/api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and write is scoped to an owning user: a task that exists but
// belongs to someone else behaves exactly like a missing task
// (ErrTaskNotFound), so the API never leaks the existence of other users'
// resources.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owning user does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// ListByUser returns all tasks owned by the given user, newest first.
	// Returns an empty slice when the user has no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// GetForUser retrieves a single task by ID, scoped to the owning user.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// a different user.
	GetForUser(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateForUser persists changes to an existing task, scoped to the
	// owning user. The task's UserID and ID select the row; all other
	// mutable fields are written.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// a different user.
	UpdateForUser(ctx context.Context, task *domain.Task) error

	// DeleteForUser removes a task, scoped to the owning user.
	// Returns ErrTaskNotFound if the task does not exist or is owned by
	// a different user. Deleting twice yields ErrTaskNotFound.
	DeleteForUser(ctx context.Context, userID, taskID uuid.UUID) error

	// FindDueUnnotified returns pending tasks whose deadline falls within
	// (from, to] and whose reminder has not been sent yet. Used by the
	// reminder scheduler.
	FindDueUnnotified(ctx context.Context, from, to time.Time) ([]*domain.Task, error)

	// MarkNotified sets the task's notificationSent flag, but only while
	// the deadline still matches the value seen at scan time. A task whose
	// deadline was edited in between stays armed for its new window; a
	// superseded or deleted task is silently skipped.
	MarkNotified(ctx context.Context, taskID uuid.UUID, deadline time.Time) error
}
