package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smarttasker/api/internal/domain"
	"github.com/smarttasker/api/internal/generation"
	"github.com/smarttasker/api/internal/notify"
	"github.com/smarttasker/api/internal/store"
)

// CreateTaskInput carries the fields for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
}

// UpdateTaskInput carries a partial update. Nil pointers mean "leave
// unchanged". DeadlineProvided distinguishes "deadline absent from the
// payload" from "deadline explicitly set or cleared": whenever the deadline
// key is present the reminder is re-armed, even for an identical value.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	Status           *domain.TaskStatus
	Deadline         *time.Time
	DeadlineProvided bool
}

// TaskService provides ownership-scoped task operations plus the AI
// advisory integrations.
type TaskService interface {
	// List returns all tasks owned by the user, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Create persists a new task for the user and kicks off the
	// best-effort AI priority suggestion in the background. The returned
	// task never waits on, and never fails because of, the AI call.
	Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// Update applies a partial update to a task the user owns.
	// Returns ErrTaskNotFound for missing or foreign tasks alike.
	Update(ctx context.Context, userID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Task, error)

	// Delete removes a task the user owns.
	// Returns ErrTaskNotFound for missing or foreign tasks alike.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// GenerateFromText asks the AI service to derive task suggestions
	// from free text. Nothing is persisted; the suggestions are returned
	// for the user to confirm. Returns ErrEmptyText for blank input and
	// ErrGenerationUnavailable when the AI service fails.
	GenerateFromText(ctx context.Context, userID uuid.UUID, text string) ([]generation.GeneratedTask, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks     store.TaskStore
	advisor   generation.PriorityAdvisor
	generator generation.Generator
	notifier  notify.Notifier
	logger    *slog.Logger

	// suggestionTimeout bounds the detached AI suggestion call, which runs
	// on its own context after the HTTP request has completed.
	suggestionTimeout time.Duration
}

// NewTaskService creates a new TaskService with the given dependencies.
// If logger is nil, a default logger will be used.
func NewTaskService(
	tasks store.TaskStore,
	advisor generation.PriorityAdvisor,
	generator generation.Generator,
	notifier notify.Notifier,
	log *slog.Logger,
) TaskService {
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:             tasks,
		advisor:           advisor,
		generator:         generator,
		notifier:          notifier,
		logger:            log.With(slog.String("component", "task_service")),
		suggestionTimeout: 30 * time.Second,
	}
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, newTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateTaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(userID, input.Title, input.Description, input.Deadline)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, newTaskServiceError("create_task", "failed to create task", err)
	}

	// The priority suggestion is a detached side effect: it runs on its own
	// context, and its failure is logged here and nowhere else.
	go s.suggestPriority(task)

	return task, nil
}

// suggestPriority asks the AI service for a priority hint and pushes it to
// the task owner's notification group. Runs in its own goroutine.
func (s *taskServiceImpl) suggestPriority(task *domain.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), s.suggestionTimeout)
	defer cancel()

	priority, err := s.advisor.PredictPriority(ctx, task.Description)
	if err != nil {
		s.logger.Warn("AI priority suggestion failed",
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	s.notifier.Publish(ctx, task.UserID, notify.EventAISuggestion, map[string]any{
		"taskId":     task.ID,
		"suggestion": priority,
		"message":    "AI suggests a " + priority + " priority for this task.",
	})
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	input UpdateTaskInput,
) (*domain.Task, error) {
	task, err := s.tasks.GetForUser(ctx, userID, taskID)
	if err != nil {
		return nil, newTaskServiceError("update_task", "failed to load task", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DeadlineProvided {
		// Any deadline write opens a fresh reminder window.
		task.SetDeadline(input.Deadline)
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.UpdateForUser(ctx, task); err != nil {
		return nil, newTaskServiceError("update_task", "failed to update task", err)
	}

	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.tasks.DeleteForUser(ctx, userID, taskID); err != nil {
		return newTaskServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}

// GenerateFromText implements TaskService.GenerateFromText
func (s *taskServiceImpl) GenerateFromText(
	ctx context.Context,
	userID uuid.UUID,
	text string,
) ([]generation.GeneratedTask, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	suggestions, err := s.generator.GenerateTasks(ctx, text)
	if err != nil {
		// Unlike the create-path suggestion, this call IS the requested
		// operation, so its failure is the operation's failure.
		s.logger.Error("AI task generation failed",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, ErrGenerationUnavailable
	}

	return suggestions, nil
}
