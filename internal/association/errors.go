package association

import "fmt"

// NotFinishedError indicates the remote association resource has not reached
// the finished status and cannot be explored locally yet.
type NotFinishedError struct {
	ResourceID string
	StatusCode int
}

func (e *NotFinishedError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("association %s is not finished yet (status %d)", e.ResourceID, e.StatusCode)
	}
	return fmt.Sprintf("association is not finished yet (status %d)", e.StatusCode)
}

// MissingAssociationsError indicates the resource payload lacks the
// associations section that holds fields, items and rules.
type MissingAssociationsError struct {
	ResourceID string
}

func (e *MissingAssociationsError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("resource %s has no associations section", e.ResourceID)
	}
	return "resource has no associations section"
}

// UnknownFieldError indicates a field filter value that resolves to neither a
// field ID nor a field name.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("failed to find a field name or ID corresponding to %q", e.Field)
}

// InvalidArgumentError indicates a filter argument that cannot be applied,
// such as an item name that matches no item.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string { return "invalid argument: " + e.Reason }

// MissingDestinationError indicates an export call without an output target.
type MissingDestinationError struct{}

func (e *MissingDestinationError) Error() string {
	return "a valid destination is required to store the rules"
}
