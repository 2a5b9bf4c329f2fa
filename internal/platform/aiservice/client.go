// Package aiservice implements the generation interfaces against the
// external AI microservice's JSON-over-HTTP protocol.
package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/smarttasker/api/internal/generation"
	"github.com/smarttasker/api/internal/platform/logger"
)

// Client is a thin HTTP client for the AI advisory service.
// It implements both generation.PriorityAdvisor and generation.Generator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure Client implements the generation interfaces
var (
	_ generation.PriorityAdvisor = (*Client)(nil)
	_ generation.Generator       = (*Client)(nil)
)

// NewClient creates a client for the AI service at baseURL. The timeout
// bounds every request; a hung AI service blocks only the calling request
// or scheduler tick, never the rest of the system.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.With(slog.String("component", "ai_client")),
	}, nil
}

// predictPriorityRequest is the request body for POST /predict-priority.
type predictPriorityRequest struct {
	Description string `json:"description"`
}

// predictPriorityResponse is the response body for POST /predict-priority.
type predictPriorityResponse struct {
	Priority string `json:"priority"`
}

// generateTasksRequest is the request body for POST /generate-tasks.
type generateTasksRequest struct {
	Text string `json:"text"`
}

// PredictPriority implements generation.PriorityAdvisor.
func (c *Client) PredictPriority(ctx context.Context, description string) (string, error) {
	var resp predictPriorityResponse
	err := c.post(ctx, "/predict-priority", predictPriorityRequest{Description: description}, &resp)
	if err != nil {
		return "", err
	}

	if resp.Priority == "" {
		return "", fmt.Errorf("%w: empty priority", generation.ErrInvalidResponse)
	}

	return resp.Priority, nil
}

// GenerateTasks implements generation.Generator.
func (c *Client) GenerateTasks(ctx context.Context, text string) ([]generation.GeneratedTask, error) {
	var tasks []generation.GeneratedTask
	err := c.post(ctx, "/generate-tasks", generateTasksRequest{Text: text}, &tasks)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []generation.GeneratedTask{}
	}

	return tasks, nil
}

// post sends a JSON POST to the given path and decodes the JSON response
// into out. Transport failures map to ErrServiceUnavailable, non-2xx
// statuses and undecodable bodies to ErrInvalidResponse.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: marshaling request: %v", generation.ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", generation.ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("AI service request failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", generation.ErrServiceUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug("failed to close AI response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little of the body for the log; never forward it to callers.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("AI service returned error status",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return fmt.Errorf("%w: status %d", generation.ErrInvalidResponse, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Warn("failed to decode AI service response",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return nil
}
