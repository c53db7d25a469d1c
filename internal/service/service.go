// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All remote API calls go through this interface.
// Session and workspace code never build HTTP requests directly.
type Service interface {
	// SetToken attaches a bearer credential to all subsequent requests.
	SetToken(token string)

	// ClearToken detaches the bearer credential.
	ClearToken()

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Register creates an account and returns a bearer token.
	Register(ctx context.Context, name, username, password string) (string, error)

	// Profile returns the authenticated user's profile.
	Profile(ctx context.Context) (UserProfile, error)

	// ListTasks returns the full task collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's record,
	// including the server-assigned id and creation timestamp.
	CreateTask(ctx context.Context, title, description string) (Task, error)

	// UpdateTask replaces the editable fields of a task by id and
	// returns the updated server record.
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (Task, error)

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id string) error
}
