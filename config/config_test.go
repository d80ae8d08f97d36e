package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aurora.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
package_name: com.example.captions
api_key: test-key
server_url: wss://staging.auroralens.io/app-ws
`)

	app, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "com.example.captions", app.PackageName)
	assert.Equal(t, "test-key", app.APIKey)
	assert.Equal(t, "wss://staging.auroralens.io/app-ws", app.ServerURL)
}

func TestLoadDefaultsServerURL(t *testing.T) {
	path := writeConfig(t, `
package_name: com.example.captions
api_key: test-key
`)

	app, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, app.ServerURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
package_name: com.example.captions
api_key: file-key
`)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvServerURL, "ws://localhost:8002/app-ws")

	app, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", app.APIKey)
	assert.Equal(t, "ws://localhost:8002/app-ws", app.ServerURL)
	assert.Equal(t, "com.example.captions", app.PackageName)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMissingRequiredField(t *testing.T) {
	path := writeConfig(t, `
package_name: com.example.captions
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvPackageName, "com.example.captions")
	t.Setenv(EnvAPIKey, "env-key")

	app, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "com.example.captions", app.PackageName)
	assert.Equal(t, "env-key", app.APIKey)
	assert.Equal(t, DefaultServerURL, app.ServerURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		app  App
		ok   bool
	}{
		{name: "complete", app: App{PackageName: "p", APIKey: "k", ServerURL: "wss://x"}, ok: true},
		{name: "no package", app: App{APIKey: "k", ServerURL: "wss://x"}},
		{name: "no key", app: App{PackageName: "p", ServerURL: "wss://x"}},
		{name: "no url", app: App{PackageName: "p", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.app.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMissingField)
			}
		})
	}
}
