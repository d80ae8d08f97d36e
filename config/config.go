// Package config loads app configuration from a YAML file and the
// environment. Environment variables override file values, and a
// .env file in the working directory is honored for local development.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Environment variable names. Each overrides the corresponding file
// field.
const (
	EnvPackageName = "AURORA_PACKAGE_NAME"
	EnvAPIKey      = "AURORA_API_KEY"
	EnvServerURL   = "AURORA_SERVER_URL"
)

// DefaultServerURL is the production session endpoint.
const DefaultServerURL = "wss://api.auroralens.io/app-ws"

// ErrMissingField is returned by Validate when a required field is
// empty.
var ErrMissingField = errors.New("missing required config field")

// App is the configuration an app needs to open sessions.
type App struct {
	// PackageName is the app's unique identifier, e.g. "com.example.captions".
	PackageName string `yaml:"package_name"`

	// APIKey authenticates the app to the cloud.
	APIKey string `yaml:"api_key"`

	// ServerURL is the ws:// or wss:// session endpoint.
	ServerURL string `yaml:"server_url"`
}

// Load reads a YAML config file, then applies environment overrides.
func Load(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var app App
	if err := yaml.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	app.applyEnv()
	app.applyDefaults()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

// FromEnv builds a config from the environment alone. A .env file in
// the working directory is loaded first if present.
func FromEnv() (*App, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var app App
	app.applyEnv()
	app.applyDefaults()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *App) applyEnv() {
	if v := os.Getenv(EnvPackageName); v != "" {
		a.PackageName = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		a.APIKey = v
	}
	if v := os.Getenv(EnvServerURL); v != "" {
		a.ServerURL = v
	}
}

func (a *App) applyDefaults() {
	if a.ServerURL == "" {
		a.ServerURL = DefaultServerURL
	}
}

// Validate checks that all required fields are present.
func (a *App) Validate() error {
	if a.PackageName == "" {
		return fmt.Errorf("%w: package_name", ErrMissingField)
	}
	if a.APIKey == "" {
		return fmt.Errorf("%w: api_key", ErrMissingField)
	}
	if a.ServerURL == "" {
		return fmt.Errorf("%w: server_url", ErrMissingField)
	}
	return nil
}
