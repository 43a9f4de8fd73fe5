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
	for _, key := range []string{
		"CI", "ENV", "CONFIG_FILE", "SERVER_PORT", "SERVER_HOST", "LOG_LEVEL",
		"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_URL",
		"RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS", "BACKEND_URL", "SUBMIT_POLICY",
		"SIMULATED_LATENCY", "STAGE_TIMEOUT", "WHISPER_BIN", "WHISPER_MODEL",
		"WHISPER_MAX_LISTEN", "DESKTOP_NOTIFICATIONS",
		"DEEPSEEK_API_KEY", "DEEPSEEK_API_KEY_FILE", "DEEPSEEK_API_URL", "LLM_MODEL",
	} {
		t.Setenv(key, "")
	}
	// Keep a stray .env in the package directory out of the test
	t.Chdir(t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, SubmitPolicyReject, cfg.SubmitPolicy)
	assert.True(t, cfg.SimulatedLatency)
	assert.Equal(t, 30, cfg.RateLimitPerMinute)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.LLMEnabled())
	assert.Equal(t, "deepseek-chat", cfg.LLMModel)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("SUBMIT_POLICY", "cancel")
	t.Setenv("SIMULATED_LATENCY", "false")
	t.Setenv("STAGE_TIMEOUT", "2s")
	t.Setenv("BACKEND_URL", "http://backend:8080")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 5, cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, SubmitPolicyCancel, cfg.SubmitPolicy)
	assert.False(t, cfg.SimulatedLatency)
	assert.Equal(t, 2*time.Second, cfg.StageTimeout)
	assert.Equal(t, "http://backend:8080", cfg.BackendURL)
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "serverPort: \"7070\"\nsubmitPolicy: cancel\nwhisperMaxListen: 3s\nrateLimitPerMinute: 12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "20")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.ServerPort)
	assert.Equal(t, SubmitPolicyCancel, cfg.SubmitPolicy)
	assert.Equal(t, 3*time.Second, cfg.WhisperMaxListen)
	// Environment wins over the file
	assert.Equal(t, 20, cfg.RateLimitPerMinute)
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides variables that are already present
	require.NoError(t, os.Unsetenv("SERVER_PORT"))
	t.Cleanup(func() { os.Unsetenv("SERVER_PORT") })
	require.NoError(t, os.WriteFile(".env", []byte("SERVER_PORT=6060\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.ServerPort)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	assert.NoError(t, ValidateConfig(cfg))

	cfg.ServerPort = "http"
	assert.ErrorContains(t, ValidateConfig(cfg), "SERVER_PORT")

	cfg = Default()
	cfg.SubmitPolicy = "queue"
	assert.ErrorContains(t, ValidateConfig(cfg), "SUBMIT_POLICY")

	cfg = Default()
	cfg.BackendURL = "backend:8080"
	assert.ErrorContains(t, ValidateConfig(cfg), "BACKEND_URL")

	t.Setenv("ENV", "production")
	cfg = Default()
	assert.ErrorContains(t, ValidateConfig(cfg), "redis is required")
	cfg.RedisHost = "redis"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestLoadConfigLLMKeyFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "deepseek.key")
	require.NoError(t, os.WriteFile(path, []byte("sk-from-file\n"), 0o600))
	t.Setenv("DEEPSEEK_API_KEY_FILE", path)
	t.Setenv("LLM_MODEL", "deepseek-reasoner")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.LLMEnabled())
	assert.Equal(t, "sk-from-file", cfg.DeepSeekAPIKey)
	assert.Equal(t, "deepseek-reasoner", cfg.LLMModel)

	t.Setenv("DEEPSEEK_API_KEY_FILE", filepath.Join(t.TempDir(), "missing"))
	_, err = LoadConfig()
	assert.Error(t, err)
}
