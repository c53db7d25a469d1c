// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"time"
)

// Task represents a single task item as stored by the remote API.
type Task struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt,omitempty"`

	// Date is a legacy creation-time field still present on old records.
	Date string `json:"date,omitempty"`
}

// CreationTime parses the task's creation timestamp, preferring CreatedAt and
// falling back to the legacy Date field. Unparsable or missing timestamps
// yield the zero time, which orders before every valid timestamp.
func (t Task) CreationTime() time.Time {
	for _, raw := range []string{t.CreatedAt, t.Date} {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// UserProfile represents the authenticated user's profile.
// Read-only from the client's perspective.
type UserProfile struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// DisplayName returns the profile's name, falling back to the username.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Username
}

// TaskUpdate holds the editable fields sent on task updates.
// Completed is a pointer so edits that don't touch completion omit it.
type TaskUpdate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   *bool  `json:"completed,omitempty"`
}

// APIError is a non-2xx response from the remote API. Message carries the
// server-supplied message when the response body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}
