package api

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Resource status codes reported by the mining service.
const (
	StatusWaiting    = 0
	StatusQueued     = 1
	StatusStarted    = 2
	StatusInProgress = 3
	StatusSummarized = 4
	StatusFinished   = 5
	StatusFaulty     = -1
	StatusUnknown    = -2
)

// Status is the processing state embedded in a resource payload.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var associationIDRe = regexp.MustCompile(`^association/[a-f0-9]{24}$`)

// ParseResourceID validates an association resource ID of the form
// "association/<24 hex chars>".
func ParseResourceID(id string) (string, error) {
	if !associationIDRe.MatchString(id) {
		return "", fmt.Errorf("invalid association resource ID: %q", id)
	}
	return id, nil
}

// IsAssociationID reports whether id names an association resource.
func IsAssociationID(id string) bool { return associationIDRe.MatchString(id) }

// resourceStatus extracts the status code from a resource payload. The
// status lives either at the top level or inside the object wrapper.
func resourceStatus(body []byte) (int, error) {
	var env struct {
		Status *Status `json:"status"`
		Object *struct {
			Status *Status `json:"status"`
		} `json:"object"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return StatusUnknown, fmt.Errorf("decode resource status: %w", err)
	}
	if env.Object != nil && env.Object.Status != nil {
		return env.Object.Status.Code, nil
	}
	if env.Status != nil {
		return env.Status.Code, nil
	}
	return StatusUnknown, nil
}
