package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string
	StaticDir  string

	// Recipe data: a local path or s3://bucket/key
	RecipesSource string
	AWSRegion     string

	// Text generation
	AIAPIKey  string
	AIURL     string
	AIModel   string
	AITimeout time.Duration

	// Rate limiting; an empty RedisURL keeps the limiter in-process
	RedisURL           string
	RateLimitPerMinute int

	CORSAllowedOrigins []string

	LogLevel  string
	LogFormat string

	// Recommendation and search tuning
	SearchDefaultPageSize int
	SearchMaxPageSize     int
	PreferLightMeals      bool
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// AIEnabled reports whether an API key was found
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// LoadConfig creates a new Config instance with values from .env, environment
// variables and secrets
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	env := GetEnvironment()
	cfg := &Config{
		Environment:        env,
		ServerPort:         getEnv("PORT", "5000"),
		ServerHost:         getEnv("SERVER_HOST", "0.0.0.0"),
		StaticDir:          getEnv("STATIC_DIR", "../frontend"),
		RecipesSource:      getEnv("RECIPES_SOURCE", "data/recipes.json"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AIAPIKey:           loadAPIKey(),
		AIURL:              os.Getenv("SILICONFLOW_API_URL"),
		AIModel:            os.Getenv("SILICONFLOW_MODEL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", env.DefaultLogFormat())),
	}

	var errs []error
	var err error

	timeoutSeconds, err := getEnvInt("AI_TIMEOUT_SECONDS", 30)
	errs = append(errs, err)
	cfg.AITimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", 30)
	errs = append(errs, err)
	cfg.SearchDefaultPageSize, err = getEnvInt("SEARCH_DEFAULT_PAGE_SIZE", 6)
	errs = append(errs, err)
	cfg.SearchMaxPageSize, err = getEnvInt("SEARCH_MAX_PAGE_SIZE", 50)
	errs = append(errs, err)
	cfg.PreferLightMeals, err = getEnvBool("PREFER_LIGHT_MEALS", true)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads .env (or ENV_FILE) when present. Real environment variables win.
func loadDotEnv() error {
	path := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadAPIKey looks at SILICONFLOW_API_KEY, then SILICONFLOW_API_KEY_FILE, then the
// siliconflow_api_key Docker secret
func loadAPIKey() string {
	if key := strings.TrimSpace(os.Getenv("SILICONFLOW_API_KEY")); key != "" {
		return key
	}
	if path := os.Getenv("SILICONFLOW_API_KEY_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret("siliconflow_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
