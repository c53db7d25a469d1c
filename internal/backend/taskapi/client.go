// Package taskapi implements the service.Service interface over the task
// API's REST boundary.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	loginPath    = "/api/users/login"
	registerPath = "/api/users"
	profilePath  = "/api/users/profile"
	tasksPath    = "/api/tasks"
)

// Client implements service.Service against the remote task API.
type Client struct {
	baseURL string
	bare    *http.Client
	authed  *http.Client // nil until a token is attached
	debug   bool
	logW    io.Writer
}

// New creates a new task API client from config.
// No credential is attached until SetToken is called.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		bare:    &http.Client{},
		debug:   cfg.Debug,
		logW:    os.Stderr,
	}
}

// NewWithBaseURL creates a client for a specific base URL (for testing).
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		bare:    &http.Client{},
		logW:    io.Discard,
	}
}

// SetToken attaches a bearer credential to all subsequent requests.
// The oauth2 transport adds the Authorization header on every call.
func (c *Client) SetToken(token string) {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	c.authed = oauth2.NewClient(context.Background(), src)
}

// ClearToken detaches the bearer credential.
func (c *Client) ClearToken() {
	c.authed = nil
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, loginPath, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("no token in response")
	}
	return resp.Token, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, name, username, password string) (string, error) {
	body := map[string]string{"name": name, "username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, registerPath, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("no token in response")
	}
	return resp.Token, nil
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context) (service.UserProfile, error) {
	var profile service.UserProfile
	if err := c.do(ctx, http.MethodGet, profilePath, nil, &profile, true); err != nil {
		return service.UserProfile{}, err
	}
	return profile, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, tasksPath, nil, &tasks, true); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	body := map[string]string{"title": title, "description": description}
	var task service.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, body, &task, true); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (c *Client) UpdateTask(ctx context.Context, id string, update service.TaskUpdate) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPut, tasksPath+"/"+id, update, &task, true); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, tasksPath+"/"+id, nil, nil, true)
}

// do performs one JSON request against the API.
// authed selects the credentialed client; login/register go out bare.
// out may be nil for responses whose body is not needed.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.bare
	if authed && c.authed != nil {
		httpClient = c.authed
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	if c.debug {
		fmt.Fprintf(c.logW, "taskapi: %s %s -> %d\n", method, path, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiError builds a service.APIError from a non-2xx response, extracting the
// server-supplied message when the body carries one.
func apiError(resp *http.Response) error {
	apiErr := &service.APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// wrapError wraps transport errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return err
}
