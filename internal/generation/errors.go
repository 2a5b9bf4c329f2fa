package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when task generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate tasks from text")

	// ErrInvalidResponse is returned when the AI service response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from AI service")

	// ErrServiceUnavailable is returned when the AI service cannot be reached
	ErrServiceUnavailable = errors.New("AI service unavailable")

	// ErrInvalidConfig is returned when the advisor configuration is invalid
	ErrInvalidConfig = errors.New("invalid AI client configuration")
)
