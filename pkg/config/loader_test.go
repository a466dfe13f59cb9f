package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "")
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, v, err := Load()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, DefaultEnv, cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 10*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Idempotency.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Idempotency.TTL)
	assert.Equal(t, "anthropic/claude-3-haiku", cfg.Chat.Model)
	assert.Equal(t, int64(500), cfg.Chat.MaxTokens)
	assert.True(t, cfg.Chat.GrantXPOnFailure)
	assert.Equal(t, 30*time.Second, cfg.Trivia.Timeout)
	assert.Equal(t, int64(50), cfg.Daily.MinReward)
	assert.Equal(t, int64(150), cfg.Daily.MaxReward)
	assert.Zero(t, cfg.Daily.Cooldown)
}

func TestLoadRequiresToken(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOT_TOKEN", "")

	_, _, err := Load()
	assert.Error(t, err)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	yaml := []byte(`
log:
  level: debug
  format: text
bot:
  token: from-file
trivia:
  timeout: 45s
daily:
  min_reward: 10
  max_reward: 20
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staging.yaml"), yaml, 0o600))
	t.Setenv("APP_ENV", "staging")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("TRIVIA_TIMEOUT", "15s")

	cfg, v, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 15*time.Second, cfg.Trivia.Timeout, "environment wins over file")
	assert.Equal(t, int64(10), cfg.Daily.MinReward)
	assert.Equal(t, filepath.Join(dir, "staging.yaml"), v.ConfigFileUsed())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "bad mode", env: map[string]string{"BOT_MODE": "carrier-pigeon"}},
		{name: "inverted daily range", env: map[string]string{"DAILY_MIN_REWARD": "200"}},
		{name: "unknown backend", env: map[string]string{"IDEMPOTENCY_BACKEND": "etcd"}},
		{name: "sentry without dsn", env: map[string]string{"SENTRY_ENABLED": "true"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv("BOT_TOKEN", "123:abc")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, _, err := Load()
			assert.Error(t, err)
		})
	}
}
