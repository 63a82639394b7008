package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "AGENT_URL", "PROFILE_PATH", "OPENER_SEPARATOR", "GEMINI_API_KEY", "GEMINI_MODEL", "CHAT_TIMEOUT", "LOG_LEVEL", "LOG_DEV"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultSeparator, cfg.Separator)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, DefaultChatTimeout, cfg.ChatTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ChatEnabled())
	assert.Equal(t, "http://localhost:8080/a2a/opener", cfg.OpenerEndpoint())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CHAT_TIMEOUT", "15s")
	t.Setenv("LOG_DEV", "true")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ChatTimeout)
	assert.True(t, cfg.LogDev)
	assert.True(t, cfg.ChatEnabled())
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PROFILE_PATH=/etc/opener/profile.yaml\nGEMINI_MODEL=gemini-test\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("PROFILE_PATH")
		os.Unsetenv("GEMINI_MODEL")
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/etc/opener/profile.yaml", cfg.ProfilePath)
	assert.Equal(t, "gemini-test", cfg.GeminiModel)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHAT_TIMEOUT", "0s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadAgentURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("AGENT_URL", " https://opener.example.com/ ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://opener.example.com", cfg.BaseURL())
	assert.Equal(t, "https://opener.example.com/a2a/opener", cfg.OpenerEndpoint())
}
