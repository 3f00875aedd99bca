package api

import (
	"fmt"
	"time"
)

// APIError represents a structured error response from the mining service.
type APIError struct {
	StatusCode int            `json:"-"`
	Code       string         `json:"code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Raw        map[string]any `json:"-"`
	RequestID  string         `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.RequestID != "" {
			return fmt.Sprintf("api error: status=%d request_id=%s message=%s", e.StatusCode, e.RequestID, e.Message)
		}
		return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
	}
	if e.RequestID != "" {
		return fmt.Sprintf("api error: status=%d request_id=%s", e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("api error: status=%d", e.StatusCode)
}

// AuthError indicates authentication/authorization failures (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// RateLimitError indicates 429 responses and may include a Retry-After.
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying: %s", int(e.RetryAfter.Seconds()), e.APIError.Error())
	}
	return fmt.Sprintf("rate limited: %s", e.APIError.Error())
}

// NotFoundError indicates the requested resource does not exist.
type NotFoundError struct{ *APIError }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.APIError.Error())
}

// BadRequestError indicates a 400 validation problem.
type BadRequestError struct{ *APIError }

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("bad request: %s", e.APIError.Error())
}

// ServerError indicates 5xx errors from the service.
type ServerError struct{ *APIError }

func (e *ServerError) Error() string { return fmt.Sprintf("service error: %s", e.APIError.Error()) }

// FaultyResourceError indicates the service finished the resource with an
// error; retrying the retrieval will not help.
type FaultyResourceError struct {
	ResourceID string
	Message    string
}

func (e *FaultyResourceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("resource %s is faulty: %s", e.ResourceID, e.Message)
	}
	return fmt.Sprintf("resource %s is faulty", e.ResourceID)
}
