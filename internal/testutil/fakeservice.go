// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/service"
)

// Seed account present in every new FakeService.
const (
	SeedUsername = "alice"
	SeedPassword = "secret"
	SeedName     = "Alice"
)

type fakeUser struct {
	id       string
	name     string
	password string
}

// FakeService is an in-memory implementation of service.Service for testing.
// It mints server-assigned ids and creation timestamps the way the real API
// does, and records call counts so tests can assert that an operation never
// reached the network.
type FakeService struct {
	mu      sync.RWMutex
	users   map[string]fakeUser // username -> account
	tokens  map[string]string   // token -> username
	tasks   []service.Task
	token   string // currently attached bearer token, "" when detached
	clock   time.Time
	calls   map[string]int

	// Error injection for testing
	LoginErr      error
	RegisterErr   error
	ProfileErr    error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates a new FakeService with one seeded account.
func NewFakeService() *FakeService {
	f := &FakeService{
		users:  make(map[string]fakeUser),
		tokens: make(map[string]string),
		calls:  make(map[string]int),
		clock:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.users[SeedUsername] = fakeUser{
		id:       uuid.NewString(),
		name:     SeedName,
		password: SeedPassword,
	}
	return f
}

// AddTask seeds a task with an explicit creation timestamp.
// Pass createdAt as RFC3339, or anything else to exercise unparsable dates.
func (f *FakeService) AddTask(title, description, createdAt string) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := service.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
	}
	f.tasks = append(f.tasks, task)
	return task
}

// IssueToken mints a token for the seeded account, as if a login happened
// in an earlier process.
func (f *FakeService) IssueToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = SeedUsername
	return token
}

// CallCount returns how many times the named backend operation was invoked.
func (f *FakeService) CallCount(op string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[op]
}

// AttachedToken returns the currently attached bearer token.
func (f *FakeService) AttachedToken() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.token
}

// TaskSnapshot returns a copy of the server-side task list.
func (f *FakeService) TaskSnapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeService) record(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

// SetToken implements service.Service.
func (f *FakeService) SetToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

// ClearToken implements service.Service.
func (f *FakeService) ClearToken() {
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, username, password string) (string, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[username]
	if !ok || user.password != password {
		return "", &service.APIError{StatusCode: 401, Message: "Invalid username or password"}
	}
	token := uuid.NewString()
	f.tokens[token] = username
	return token, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, username, password string) (string, error) {
	f.record("Register")
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[username]; exists {
		return "", &service.APIError{StatusCode: 409, Message: "Username already taken"}
	}
	f.users[username] = fakeUser{id: uuid.NewString(), name: name, password: password}
	token := uuid.NewString()
	f.tokens[token] = username
	return token, nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context) (service.UserProfile, error) {
	f.record("Profile")
	if f.ProfileErr != nil {
		return service.UserProfile{}, f.ProfileErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	username, ok := f.tokens[f.token]
	if !ok {
		return service.UserProfile{}, &service.APIError{StatusCode: 401, Message: "Not authorized"}
	}
	user := f.users[username]
	return service.UserProfile{ID: user.id, Name: user.name, Username: username}, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	if err := f.authorize(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	if err := f.authorize(); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clock = f.clock.Add(time.Minute)
	task := service.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   f.clock.Format(time.RFC3339),
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	if err := f.authorize(); err != nil {
		return service.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		t.Title = update.Title
		t.Description = update.Description
		if update.Completed != nil {
			t.Completed = *update.Completed
		}
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, &service.APIError{StatusCode: 404, Message: "Task not found"}
}

// DeleteTask implements service.Service.
// Deleting an id that no longer exists succeeds, matching the API's
// idempotent delete.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	if err := f.authorize(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *FakeService) authorize() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, ok := f.tokens[f.token]; !ok {
		return &service.APIError{StatusCode: 401, Message: "Not authorized"}
	}
	return nil
}
