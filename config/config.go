package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Submission policies accepted by SUBMIT_POLICY
const (
	SubmitPolicyReject = "reject"
	SubmitPolicyCancel = "cancel"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string `yaml:"serverPort"`
	ServerHost string `yaml:"serverHost"`
	LogLevel   string `yaml:"logLevel"`

	// Redis configuration
	RedisHost     string `yaml:"redisHost"`
	RedisPort     string `yaml:"redisPort"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	RedisURL      string `yaml:"redisURL"`

	// HTTP API policy
	RateLimitPerMinute int      `yaml:"rateLimitPerMinute"`
	CORSAllowedOrigins []string `yaml:"corsAllowedOrigins"`

	// Generation pipeline
	BackendURL       string        `yaml:"backendURL"`
	SubmitPolicy     string        `yaml:"submitPolicy"`
	SimulatedLatency bool          `yaml:"simulatedLatency"`
	StageTimeout     time.Duration `yaml:"stageTimeout"`

	// Optional LLM recipe backend used by the API instead of the stand-in
	DeepSeekAPIKey string `yaml:"deepSeekAPIKey"`
	DeepSeekAPIURL string `yaml:"deepSeekAPIURL"`
	LLMModel       string `yaml:"llmModel"`

	// Voice input and notifications
	WhisperBin           string        `yaml:"whisperBin"`
	WhisperModel         string        `yaml:"whisperModel"`
	WhisperMaxListen     time.Duration `yaml:"whisperMaxListen"`
	DesktopNotifications bool          `yaml:"desktopNotifications"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerPort:         "8080",
		ServerHost:         "0.0.0.0",
		LogLevel:           "info",
		RedisPort:          "6379",
		RateLimitPerMinute: 30,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		SubmitPolicy:       SubmitPolicyReject,
		SimulatedLatency:   true,
		StageTimeout:       30 * time.Second,
		DeepSeekAPIURL:     "https://api.deepseek.com/v1/chat/completions",
		LLMModel:           "deepseek-chat",
		WhisperBin:         "whisper-cli",
		WhisperModel:       "models/ggml-base.en.bin",
		WhisperMaxListen:   5 * time.Second,
	}
}

// LoadConfig creates a new Config from defaults, the optional CONFIG_FILE,
// a .env file in the working directory and the process environment, in that order.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis server has been configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LLMEnabled reports whether recipes should come from the LLM backend
func (c *Config) LLMEnabled() bool {
	return c.DeepSeekAPIKey != ""
}

// Addr returns the listen address of the HTTP server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.RedisHost, "REDIS_HOST")
	setString(&cfg.RedisPort, "REDIS_PORT")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.BackendURL, "BACKEND_URL")
	setString(&cfg.SubmitPolicy, "SUBMIT_POLICY")
	setString(&cfg.WhisperBin, "WHISPER_BIN")
	setString(&cfg.WhisperModel, "WHISPER_MODEL")
	setString(&cfg.DeepSeekAPIKey, "DEEPSEEK_API_KEY")
	setString(&cfg.DeepSeekAPIURL, "DEEPSEEK_API_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")

	if cfg.DeepSeekAPIKey == "" {
		if path := os.Getenv("DEEPSEEK_API_KEY_FILE"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("DEEPSEEK_API_KEY_FILE: %w", err)
			}
			cfg.DeepSeekAPIKey = strings.TrimSpace(string(data))
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
		}
		cfg.RateLimitPerMinute = n
	}
	if v := os.Getenv("SIMULATED_LATENCY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SIMULATED_LATENCY: %w", err)
		}
		cfg.SimulatedLatency = b
	}
	if v := os.Getenv("DESKTOP_NOTIFICATIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DESKTOP_NOTIFICATIONS: %w", err)
		}
		cfg.DesktopNotifications = b
	}
	if v := os.Getenv("STAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("STAGE_TIMEOUT: %w", err)
		}
		cfg.StageTimeout = d
	}
	if v := os.Getenv("WHISPER_MAX_LISTEN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WHISPER_MAX_LISTEN: %w", err)
		}
		cfg.WhisperMaxListen = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
