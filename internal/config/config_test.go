package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("CRATE_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "CRATE_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "CRATE_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "CRATE_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"nonsense", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, getBoolConfigValue(tt.value, "CRATE_TEST_BOOL", true), "value %q", tt.value)
	}

	// Empty everywhere falls back to the default.
	assert.True(t, getBoolConfigValue("", "CRATE_TEST_BOOL_MISSING", true))
	assert.False(t, getBoolConfigValue("", "CRATE_TEST_BOOL_MISSING", false))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := "# comment line\n\nCRATE_ENVFILE_A=hello\nCRATE_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("CRATE_ENVFILE_A")
		os.Unsetenv("CRATE_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "hello", os.Getenv("CRATE_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("CRATE_ENVFILE_B"))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("CRATE_ENVFILE_C=file\n"), 0o600))

	t.Setenv("CRATE_ENVFILE_C", "env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "env", os.Getenv("CRATE_ENVFILE_C"))
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/tmp/crate.db"},
	}
	assert.NoError(t, cfg.Validate())

	cfg.App.Environment = "testing"
	assert.Error(t, cfg.Validate())

	cfg.App.Environment = "production"
	cfg.Logger.Level = "verbose"
	assert.Error(t, cfg.Validate())

	cfg.Logger.Level = "warn"
	cfg.Database.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestParseDurationValue(t *testing.T) {
	d, err := parseDurationValue("30s", "CRATE_TEST_DURATION", "15s")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = parseDurationValue("not-a-duration", "CRATE_TEST_DURATION", "15s")
	assert.Error(t, err)
}
