package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	// Default penalty amount in whole rupees for the device-reset flow.
	PenaltyAmount int64
}

type WatiConfig struct {
	BaseURL     string
	AccessToken string
	// Prepended to numbers that arrive without a country code.
	CountryCode string
}

type PushConfig struct {
	BaseURL   string
	ServerKey string
}

type SweepConfig struct {
	Interval     time.Duration
	ReminderDays int
	RemindOnce   bool
}

type Config struct {
	Port        string
	PostgresURL string
	RedisURL    string
	JWTSecret   string

	Razorpay RazorpayConfig
	Wati     WatiConfig
	Push     PushConfig
	Sweep    SweepConfig

	UsageDailyLimit int
}

// Load reads .env when present, then the process environment. The database
// DSN is the only hard requirement at startup; provider credentials are
// checked at use time so the API can run without payments configured.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			BaseURL:       getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
			PenaltyAmount: getEnvInt64("PENALTY_AMOUNT", 500),
		},
		Wati: WatiConfig{
			BaseURL:     os.Getenv("WATI_BASE_URL"),
			AccessToken: os.Getenv("WATI_ACCESS_TOKEN"),
			CountryCode: getEnv("WATI_COUNTRY_CODE", "91"),
		},
		Push: PushConfig{
			BaseURL:   os.Getenv("PUSH_BASE_URL"),
			ServerKey: os.Getenv("PUSH_SERVER_KEY"),
		},
		Sweep: SweepConfig{
			Interval:     getEnvDuration("SWEEP_INTERVAL", 24*time.Hour),
			ReminderDays: int(getEnvInt64("SWEEP_REMINDER_DAYS", 3)),
			RemindOnce:   getEnvBool("SWEEP_REMIND_ONCE", false),
		},
		UsageDailyLimit: int(getEnvInt64("USAGE_DAILY_LIMIT", 50)),
	}

	if cfg.PostgresURL == "" {
		log.Fatal("POSTGRES_URL is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
