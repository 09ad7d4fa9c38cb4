package internal_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbomb79/mediagrab/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv ensures config from the developers environment
// cannot leak in to these tests.
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"API_HOST_ADDR", "API_BODY_LIMIT", "LOG_LEVEL",
		"AUTOLINK_HOST", "AUTOLINK_API_KEY", "AUTOLINK_PATH", "AUTOLINK_BASE_URL", "AUTOLINK_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func Test_LoadConfig_FromEnvWithDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOLINK_HOST", "social-download.example.com")
	t.Setenv("AUTOLINK_API_KEY", "secret")

	config, err := internal.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "social-download.example.com", config.Autolink.Host)
	assert.Equal(t, "secret", config.Autolink.ApiKey)
	assert.Equal(t, "/v1/social/autolink", config.Autolink.Path)
	assert.Equal(t, 20, config.Autolink.TimeoutSeconds)
	assert.Equal(t, "https://social-download.example.com/v1/social/autolink", config.Autolink.Endpoint())
	assert.Equal(t, "0.0.0.0:5000", config.RestConfig.HostAddr)
	assert.Equal(t, "64K", config.RestConfig.BodyLimit)
	assert.Equal(t, "info", config.LogLevel)
}

func Test_LoadConfig_SecretsAreRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("AUTOLINK_HOST", "social-download.example.com")

	_, err := internal.LoadConfig("")
	assert.Error(t, err)
}

func Test_LoadConfig_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		summary string
		key     string
		value   string
	}{
		{"zero timeout", "AUTOLINK_TIMEOUT_SECONDS", "0"},
		{"relative path", "AUTOLINK_PATH", "v1/social/autolink"},
		{"bad host", "AUTOLINK_HOST", "not a host"},
		{"bad base url", "AUTOLINK_BASE_URL", "::nope"},
		{"bad listen address", "API_HOST_ADDR", "nowhere"},
		{"bad log level", "LOG_LEVEL", "chatty"},
	}

	for _, tt := range tests {
		t.Run(tt.summary, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("AUTOLINK_HOST", "social-download.example.com")
			t.Setenv("AUTOLINK_API_KEY", "secret")
			t.Setenv(tt.key, tt.value)

			_, err := internal.LoadConfig("")
			assert.Error(t, err)
		})
	}
}

func Test_LoadConfig_FromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  host_address: "127.0.0.1:9000"
autolink:
  host: social-download.example.com
  api_key: from-file
  timeout_seconds: 10
log_level: debug
`), 0o600))

	config, err := internal.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", config.RestConfig.HostAddr)
	assert.Equal(t, "from-file", config.Autolink.ApiKey)
	assert.Equal(t, 10, config.Autolink.TimeoutSeconds)
	assert.Equal(t, "/v1/social/autolink", config.Autolink.Path, "defaults still apply to fields absent from the file")
	assert.Equal(t, "debug", config.LogLevel)

	t.Setenv("AUTOLINK_API_KEY", "from-env")
	config, err = internal.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.Autolink.ApiKey, "environment takes precedence over the file")
}

func Test_LoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := internal.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
