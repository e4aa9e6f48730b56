package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "test")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.BindAddr)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test", cfg.Version)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 10, cfg.TaskTimeoutMinutes)
	assert.False(t, cfg.LLM.Enabled())
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
port: "9090"
env: production
task_timeout_minutes: 3
llm:
  provider: openai
  model: gpt-4o
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path, "v1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 3, cfg.TaskTimeoutMinutes)
	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9090\"\n"), 0o600))

	t.Setenv("PORT", "7070")
	t.Setenv("LLM_API_KEY", "sk-test")

	cfg, err := Load(path, "dev")
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("task_timeout_minutes: 0\n"), 0o600))

	_, err := Load(path, "dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task_timeout_minutes")
}
