package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	PublicBaseURL      string

	// Kashier hosted checkout credentials. MerchantID is a non-secret
	// identifier; SecretKey is the HMAC key and must never be logged.
	KashierMerchantID string
	KashierSecretKey  string
	KashierBaseURL    string
	KashierMode       string

	PaymentRedirectURL string
	WebhookReplayTTL   time.Duration
	IdempotencyTTL     time.Duration

	BookingRateWindow time.Duration
	BookingRateMax    int
	GlobalRateLimit   string

	AdminEmail        string
	AdminPasswordHash string
	AdminJWTSecret    string
	AdminTokenTTL     time.Duration

	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	EmailFrom     string
	EmailEnabled  bool
	EmailTaskType string

	RequestBodyLimit int64
	DBMaxConns       int32
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		PublicBaseURL:      strings.TrimRight(strings.TrimSpace(k.String("PUBLIC_BASE_URL")), "/"),

		KashierMerchantID: strings.TrimSpace(k.String("KASHIER_MERCHANT_ID")),
		KashierSecretKey:  strings.TrimSpace(k.String("KASHIER_SECRET_KEY")),
		KashierBaseURL:    strings.TrimSpace(k.String("KASHIER_BASE_URL")),
		KashierMode:       valueOrDefault(k.String("KASHIER_MODE"), "test"),

		PaymentRedirectURL: strings.TrimSpace(k.String("PAYMENT_REDIRECT_URL")),
		WebhookReplayTTL:   parseDuration(k.String("WEBHOOK_REPLAY_TTL"), "24h"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "10m"),

		BookingRateWindow: parseDuration(k.String("BOOKING_RATE_WINDOW"), "1h"),
		BookingRateMax:    int(k.Int64("BOOKING_RATE_MAX")),
		GlobalRateLimit:   valueOrDefault(k.String("GLOBAL_RATE_LIMIT"), "120-M"),

		AdminEmail:        strings.TrimSpace(k.String("ADMIN_EMAIL")),
		AdminPasswordHash: strings.TrimSpace(k.String("ADMIN_PASSWORD_HASH")),
		AdminJWTSecret:    k.String("ADMIN_JWT_SECRET"),
		AdminTokenTTL:     parseDuration(k.String("ADMIN_TOKEN_TTL"), "12h"),

		SMTPHost:      strings.TrimSpace(k.String("SMTP_HOST")),
		SMTPPort:      int(k.Int64("SMTP_PORT")),
		SMTPUsername:  k.String("SMTP_USERNAME"),
		SMTPPassword:  k.String("SMTP_PASSWORD"),
		EmailFrom:     valueOrDefault(k.String("EMAIL_FROM"), "bookings@localhost"),
		EmailEnabled:  parseBool(valueOrDefault(k.String("EMAIL_ENABLED"), "true")),
		EmailTaskType: valueOrDefault(k.String("EMAIL_TASK_TYPE"), "email:deliver"),

		RequestBodyLimit: k.Int64("REQUEST_BODY_LIMIT"),
		DBMaxConns:       int32(k.Int64("DB_MAX_CONNS")),
	}

	if cfg.BookingRateMax <= 0 {
		cfg.BookingRateMax = 5
	}
	if cfg.RequestBodyLimit <= 0 {
		cfg.RequestBodyLimit = 64 << 10
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, errors.New("ADMIN_JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
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
