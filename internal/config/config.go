// Package config handles XDG configuration directory and file paths.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// APIURLEnv is the environment variable overriding the API base URL.
	APIURLEnv = "TASKDECK_API_URL"

	// DefaultAPIBaseURL is used when no override is present.
	DefaultAPIBaseURL = "http://localhost:5000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIBaseURL is the base URL of the task API.
	APIBaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
// The API base URL is resolved from TASKDECK_API_URL (environment or a .env
// file in the working directory), falling back to DefaultAPIBaseURL.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, APIBaseURL: resolveAPIBaseURL()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// resolveAPIBaseURL resolves the API base URL from the environment.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win.
func resolveAPIBaseURL() string {
	_ = godotenv.Load()
	if url := os.Getenv(APIURLEnv); url != "" {
		return url
	}
	return DefaultAPIBaseURL
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// SaveToken saves a bearer token to the token file with mode 0600.
func (c *Config) SaveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// LoadToken reads the stored token file.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
