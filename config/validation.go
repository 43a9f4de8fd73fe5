package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []string

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: "must be a port number"}.Error())
	}

	switch cfg.SubmitPolicy {
	case SubmitPolicyReject, SubmitPolicyCancel:
	default:
		errs = append(errs, ValidationError{Field: "SUBMIT_POLICY", Message: fmt.Sprintf("unknown policy %q", cfg.SubmitPolicy)}.Error())
	}

	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_PER_MINUTE", Message: "must not be negative"}.Error())
	}

	if cfg.StageTimeout < 0 {
		errs = append(errs, ValidationError{Field: "STAGE_TIMEOUT", Message: "must not be negative"}.Error())
	}

	if cfg.BackendURL != "" {
		u, err := url.Parse(cfg.BackendURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: "BACKEND_URL", Message: "must be an absolute http(s) URL"}.Error())
		}
	}

	// Rate limiting is mandatory in production
	if GetEnvironment() == Production && !cfg.RedisEnabled() {
		errs = append(errs, ValidationError{Field: "REDIS_URL", Message: "redis is required in production"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
