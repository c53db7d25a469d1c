// Package session manages the bearer-token session: restoring a persisted
// token at startup, logging in/registering, and logging out.
package session

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/oauth2"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

// State is the session's authentication state.
type State int

const (
	// Unauthenticated means no valid credential is attached.
	Unauthenticated State = iota

	// Authenticating means a login/register exchange is in flight.
	Authenticating

	// Authenticated means a credential is attached and the profile is known.
	Authenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// genericAuthMessage is shown when the server supplies no message.
const genericAuthMessage = "Authentication failed"

// Manager owns the session lifecycle. The credential is held by the backend
// service; Manager attaches and detaches it and persists the token so it
// survives process restarts.
type Manager struct {
	svc service.Service
	cfg *config.Config

	mu      sync.Mutex
	state   State
	profile service.UserProfile
}

// New creates a session manager in the unauthenticated state.
func New(svc service.Service, cfg *config.Config) *Manager {
	return &Manager{svc: svc, cfg: cfg}
}

// State returns the current authentication state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Profile returns the authenticated user's profile.
// The second return is false unless the state is Authenticated.
func (m *Manager) Profile() (service.UserProfile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile, m.state == Authenticated
}

// Restore attempts to resume a persisted session. A missing token leaves the
// manager unauthenticated. A present token is attached and validated with a
// profile fetch; on any failure the token is discarded silently and the
// manager stays unauthenticated. No error is ever surfaced on this path.
func (m *Manager) Restore(ctx context.Context) State {
	token, err := m.cfg.LoadToken()
	if err != nil || token.AccessToken == "" {
		return m.setUnauthenticated()
	}

	m.setState(Authenticating)
	m.svc.SetToken(token.AccessToken)

	profile, err := m.svc.Profile(ctx)
	if err != nil {
		// Stale or revoked token: drop it and fall back to login.
		_ = m.cfg.RemoveToken()
		m.svc.ClearToken()
		return m.setUnauthenticated()
	}

	m.setAuthenticated(profile)
	return Authenticated
}

// Login exchanges credentials for a token, persists it, attaches it, and
// fetches the profile. On failure the manager returns to the unauthenticated
// state and the returned error carries the user-visible message.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	return m.authenticate(ctx, func() (string, error) {
		return m.svc.Login(ctx, username, password)
	})
}

// Register creates an account and establishes a session exactly like Login.
func (m *Manager) Register(ctx context.Context, name, username, password string) error {
	return m.authenticate(ctx, func() (string, error) {
		return m.svc.Register(ctx, name, username, password)
	})
}

// authenticate runs the shared token-exchange flow for login and register.
func (m *Manager) authenticate(ctx context.Context, exchange func() (string, error)) error {
	m.setState(Authenticating)

	token, err := exchange()
	if err != nil {
		m.setUnauthenticated()
		return authError(err)
	}

	if err := m.persistToken(token); err != nil {
		m.setUnauthenticated()
		return err
	}
	m.svc.SetToken(token)

	profile, err := m.svc.Profile(ctx)
	if err != nil {
		_ = m.cfg.RemoveToken()
		m.svc.ClearToken()
		m.setUnauthenticated()
		return authError(err)
	}

	m.setAuthenticated(profile)
	return nil
}

// Logout clears the persisted token, the attached credential, and the
// profile. Local only: no network call is made.
func (m *Manager) Logout() {
	_ = m.cfg.RemoveToken()
	m.svc.ClearToken()
	m.mu.Lock()
	m.state = Unauthenticated
	m.profile = service.UserProfile{}
	m.mu.Unlock()
}

func (m *Manager) persistToken(token string) error {
	if err := m.cfg.EnsureDir(); err != nil {
		return err
	}
	return m.cfg.SaveToken(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Manager) setUnauthenticated() State {
	m.mu.Lock()
	m.state = Unauthenticated
	m.profile = service.UserProfile{}
	m.mu.Unlock()
	return Unauthenticated
}

func (m *Manager) setAuthenticated(profile service.UserProfile) {
	m.mu.Lock()
	m.state = Authenticated
	m.profile = profile
	m.mu.Unlock()
}

// authError converts a backend error into the user-visible authentication
// error: the server-supplied message when present, a generic one otherwise.
func authError(err error) error {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return errors.New(genericAuthMessage)
}
