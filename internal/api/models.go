package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/smarttasker/api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// RegisterResponse defines the successful response for user registration.
type RegisterResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the user subset embedded in authentication responses.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// AccessToken is the short-lived JWT used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived JWT used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`

	// User identifies the authenticated account
	User UserResponse `json:"user"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// UpdateTaskRequest defines the payload for task updates. All fields are
// optional; only fields present in the JSON body are applied.
type UpdateTaskRequest struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Status      *domain.TaskStatus `json:"status,omitempty"`
	Deadline    *time.Time         `json:"deadline,omitempty"`

	// DeadlineProvided records whether the deadline key appeared in the
	// body at all, since a present-but-null deadline clears the field
	// while an absent one leaves it untouched.
	DeadlineProvided bool `json:"-"`
}

// UnmarshalJSON decodes the update payload and records whether the
// deadline key was present in the raw body.
func (r *UpdateTaskRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateTaskRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = UpdateTaskRequest(a)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, r.DeadlineProvided = keys["deadline"]
	return nil
}

// TaskResponse defines the wire representation of a task.
type TaskResponse struct {
	ID               uuid.UUID         `json:"id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Status           domain.TaskStatus `json:"status"`
	Deadline         *time.Time        `json:"deadline,omitempty"`
	NotificationSent bool              `json:"notification_sent"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewTaskResponse converts a domain task to its wire representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		Deadline:         task.Deadline,
		NotificationSent: task.NotificationSent,
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
	}
}

// NewTaskListResponse converts a slice of domain tasks.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}

// GenerateTasksRequest defines the payload for AI task generation.
type GenerateTasksRequest struct {
	Text string `json:"text" validate:"required"`
}

// GeneratedTaskResponse is one unsaved task suggestion returned by the
// generation endpoint.
type GeneratedTaskResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GenerateTasksResponse defines the successful response for the
// generation endpoint.
type GenerateTasksResponse struct {
	Tasks []GeneratedTaskResponse `json:"tasks"`
}
