package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	// Donation lifecycle.
	PickupLead time.Duration

	// Expiry sweep. StartOffset delays the first tick so the daily run can
	// be pinned to a quiet hour relative to deploy time.
	SweepInterval      time.Duration
	SweepStartOffset   time.Duration
	SweepLookahead     time.Duration
	SweepHolderTimeout time.Duration
	SweepOnStart       bool

	// Notification delivery.
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPassword  string
	SMTPFrom      string
	NotifyRetries int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 100),

		PickupLead: time.Hour * time.Duration(getEnvInt("PICKUP_LEAD_HOURS", 24)),

		SweepInterval:      time.Hour * time.Duration(getEnvInt("SWEEP_INTERVAL_HOURS", 24)),
		SweepStartOffset:   time.Minute * time.Duration(getEnvInt("SWEEP_START_OFFSET_MINUTES", 0)),
		SweepLookahead:     24 * time.Hour * time.Duration(getEnvInt("SWEEP_LOOKAHEAD_DAYS", 30)),
		SweepHolderTimeout: time.Second * time.Duration(getEnvInt("SWEEP_HOLDER_TIMEOUT_SECONDS", 10)),
		SweepOnStart:       getEnv("SWEEP_ON_START", "false") == "true",

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASS"),
		SMTPFrom:      getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
		NotifyRetries: getEnvInt("NOTIFY_RETRIES", 3),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
