package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment. The
// struct is constructed once at startup and treated as immutable afterwards.
type Config struct {
	AppEnv            string
	ListenHost        string
	ListenPort        string
	VerifySignature   bool
	WebhookSecret     string
	StripeAPIKey      string
	ChargeSearchLimit int64
	StripeTimeout     time.Duration
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from environment variables and an optional .env file.
// It returns an error when any required variable is missing so the process
// refuses to start half-configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	verify, err := parseBoolStrict(k.String("VERIFY_SIGNATURE"))
	if err != nil {
		return nil, errors.New("VERIFY_SIGNATURE is required and must be a boolean")
	}

	cfg := &Config{
		AppEnv:            valueOrDefault(k.String("APP_ENV"), "development"),
		ListenHost:        strings.TrimSpace(k.String("LISTEN_HOST")),
		ListenPort:        strings.TrimSpace(k.String("LISTEN_PORT")),
		VerifySignature:   verify,
		WebhookSecret:     k.String("TYPEFORM_WEBHOOK_SECRET"),
		StripeAPIKey:      k.String("STRIPE_API_KEY"),
		ChargeSearchLimit: parseInt64(k.String("CHARGE_SEARCH_LIMIT"), 5),
		StripeTimeout:     parseDurationMillis(k.String("STRIPE_TIMEOUT_MS"), 20000),
		LogLevel:          valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:         valueOrDefault(k.String("LOG_FORMAT"), "json"),
	}

	if cfg.ListenHost == "" {
		return nil, errors.New("LISTEN_HOST is required")
	}
	if cfg.ListenPort == "" {
		return nil, errors.New("LISTEN_PORT is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("TYPEFORM_WEBHOOK_SECRET is required")
	}
	if cfg.StripeAPIKey == "" {
		return nil, errors.New("STRIPE_API_KEY is required")
	}
	if cfg.ChargeSearchLimit <= 0 {
		return nil, errors.New("CHARGE_SEARCH_LIMIT must be positive")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.ListenHost, c.ListenPort)
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseBoolStrict(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", value)
	}
}

func parseInt64(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseDurationMillis(value string, fallback int) time.Duration {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Duration(fallback) * time.Millisecond
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil || parsed <= 0 {
		return time.Duration(fallback) * time.Millisecond
	}
	return time.Duration(parsed) * time.Millisecond
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
