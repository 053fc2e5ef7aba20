package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultJWTSecret   = "dev-secret"
	minJWTSecretLength = 32
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// MailConfig describes where submission notifications go and how they are delivered.
type MailConfig struct {
	AdminEmail   string
	FromEmail    string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	RelayURL     string
	QueueSize    int
	Workers      int
	Timeout      time.Duration
}

// StaffConfig holds the single staff account. Auth is disabled when either field is empty.
type StaffConfig struct {
	Email        string
	PasswordHash string
}

// Enabled reports whether staff routes require a token.
func (s StaffConfig) Enabled() bool {
	return s.Email != "" && s.PasswordHash != ""
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL         string
	Port                string
	AutoMigrate         bool
	LogLevel            string
	LogFormat           string
	PhoneRegion         string
	RequireOtherService bool
	RateLimitSubmit     RateLimitConfig
	JWTSecret           string
	TokenTTL            time.Duration
	Staff               StaffConfig
	Mail                MailConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://contactdesk.db"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		PhoneRegion: strings.ToUpper(getEnv("PHONE_REGION", "US")),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:    parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
		Staff: StaffConfig{
			Email:        strings.TrimSpace(os.Getenv("STAFF_EMAIL")),
			PasswordHash: strings.TrimSpace(os.Getenv("STAFF_PASSWORD_HASH")),
		},
		Mail: MailConfig{
			AdminEmail:   getEnv("ADMIN_EMAIL", "admin@example.com"),
			FromEmail:    getEnv("DEFAULT_FROM_EMAIL", "noreply@example.com"),
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			RelayURL:     os.Getenv("MAIL_RELAY_URL"),
			Timeout:      parseDuration(getEnv("NOTIFY_TIMEOUT", "10s"), 10*time.Second),
		},
	}

	var err error
	if cfg.AutoMigrate, err = parseBool("AUTO_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.RequireOtherService, err = parseBool("REQUIRE_OTHER_SERVICE", false); err != nil {
		return nil, err
	}
	if cfg.Mail.SMTPPort, err = parsePositiveInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.Mail.QueueSize, err = parsePositiveInt("NOTIFY_QUEUE_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.Mail.Workers, err = parsePositiveInt("NOTIFY_WORKERS", 1); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT value: %q", cfg.LogFormat)
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SUBMIT", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SUBMIT value: %w", err)
	}
	cfg.RateLimitSubmit = rl

	if cfg.Staff.Enabled() {
		if err := checkStaffSecret(cfg.JWTSecret); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// checkStaffSecret rejects the built-in development secret and short secrets
// once staff tokens guard the contact list.
func checkStaffSecret(secret string) error {
	switch {
	case secret == defaultJWTSecret:
		return fmt.Errorf("JWT_SECRET must be set when STAFF_EMAIL and STAFF_PASSWORD_HASH are configured")
	case len(secret) < minJWTSecretLength:
		return fmt.Errorf("JWT_SECRET must be at least %d bytes when staff auth is enabled", minJWTSecretLength)
	}
	return nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(key string, fallback bool) (bool, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return v, nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", key, raw)
	}
	return v, nil
}
