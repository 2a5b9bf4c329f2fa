package generation

import (
	"context"
)

// GeneratedTask is a task suggestion produced by the AI service. It is not
// persisted; the client decides which suggestions to turn into real tasks.
type GeneratedTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// PriorityAdvisor predicts a priority label for a task description.
type PriorityAdvisor interface {
	// PredictPriority returns a priority label (e.g. "high", "medium",
	// "low") for the given task description, or an error if the advisory
	// service fails. Callers on the task-creation path treat failures as
	// best-effort and must not propagate them.
	PredictPriority(ctx context.Context, description string) (string, error)
}

// Generator defines the interface for generating task suggestions from
// free-form text.
type Generator interface {
	// GenerateTasks derives a list of suggested tasks from the provided
	// text. Unlike PredictPriority, a failure here is the operation's
	// failure and is surfaced to the caller.
	GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error)
}
