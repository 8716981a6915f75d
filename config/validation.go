package config

import (
	"fmt"
	"os"
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

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredEnvVars []string
}

var (
	// Environment-specific requirements. Everything else has a default.
	requirements = map[Environment]ConfigRequirements{
		Production: {
			RequiredEnvVars: []string{
				"RECIPES_SOURCE",
				"CORS_ALLOWED_ORIGINS",
			},
		},
	}

	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	for _, envVar := range requirements[cfg.Environment].RequiredEnvVars {
		if value := os.Getenv(envVar); value == "" {
			errors = append(errors, fmt.Sprintf("required environment variable %s is not set", envVar))
		}
	}

	for _, verr := range validateValues(cfg) {
		errors = append(errors, verr.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func validateValues(cfg *Config) []ValidationError {
	var errs []ValidationError

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{"PORT", "must be a port number"})
	}
	if cfg.RecipesSource == "" {
		errs = append(errs, ValidationError{"RECIPES_SOURCE", "must not be empty"})
	} else if IsS3Source(cfg.RecipesSource) {
		if _, _, err := ParseS3URI(cfg.RecipesSource); err != nil {
			errs = append(errs, ValidationError{"RECIPES_SOURCE", err.Error()})
		}
	}
	if cfg.AITimeout <= 0 {
		errs = append(errs, ValidationError{"AI_TIMEOUT_SECONDS", "must be positive"})
	}
	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must not be negative"})
	}
	if cfg.SearchDefaultPageSize < 1 {
		errs = append(errs, ValidationError{"SEARCH_DEFAULT_PAGE_SIZE", "must be positive"})
	}
	if cfg.SearchMaxPageSize < cfg.SearchDefaultPageSize {
		errs = append(errs, ValidationError{"SEARCH_MAX_PAGE_SIZE", "must not be below SEARCH_DEFAULT_PAGE_SIZE"})
	}
	if !contains(logLevels, cfg.LogLevel) {
		errs = append(errs, ValidationError{"LOG_LEVEL", "must be one of " + strings.Join(logLevels, ", ")})
	}
	if !contains(logFormats, cfg.LogFormat) {
		errs = append(errs, ValidationError{"LOG_FORMAT", "must be one of " + strings.Join(logFormats, ", ")})
	}

	return errs
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
