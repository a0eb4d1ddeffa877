package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Signup       SignupConfig
	Notification NotificationConfig
	Newsletter   NewsletterConfig
	Chat         ChatConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	RateLimitPerSecond    float64
	RateLimitBurst        int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SignupConfig tunes the signup decision rules.
type SignupConfig struct {
	// AMCutoffHour: shifts starting before this hour count as AM.
	AMCutoffHour int
	// AutoApproveMinGrade is the lowest volunteer grade eligible for
	// instant approval.
	AutoApproveMinGrade int
	// AutoApproveMaxNoShows caps the no-show history for instant
	// approval.
	AutoApproveMaxNoShows int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// NewsletterConfig configures the Campaign Monitor-style subscriber
// sync. Sync is skipped when APIURL is empty.
type NewsletterConfig struct {
	APIURL string
	APIKey string
	ListID string
}

// ChatConfig configures the documentation chat proxy.
type ChatConfig struct {
	ModelURL          string
	APIKey            string
	SessionTTLMinutes int
	MaxTurns          int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ratePerSec, err := strconv.ParseFloat(getEnv("HTTP_RATE_LIMIT_PER_SECOND", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_RATE_LIMIT_PER_SECOND: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "volunteer-shift-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			RateLimitPerSecond:    ratePerSec,
			RateLimitBurst:        getEnvAsInt("HTTP_RATE_LIMIT_BURST", 10),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Signup: SignupConfig{
			AMCutoffHour:          getEnvAsInt("SIGNUP_AM_CUTOFF_HOUR", 12),
			AutoApproveMinGrade:   getEnvAsInt("SIGNUP_AUTO_APPROVE_MIN_GRADE", 2),
			AutoApproveMaxNoShows: getEnvAsInt("SIGNUP_AUTO_APPROVE_MAX_NO_SHOWS", 0),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Newsletter: NewsletterConfig{
			APIURL: getEnv("NEWSLETTER_API_URL", ""),
			APIKey: os.Getenv("NEWSLETTER_API_KEY"),
			ListID: os.Getenv("NEWSLETTER_LIST_ID"),
		},
		Chat: ChatConfig{
			ModelURL:          getEnv("CHAT_MODEL_URL", ""),
			APIKey:            os.Getenv("CHAT_API_KEY"),
			SessionTTLMinutes: getEnvAsInt("CHAT_SESSION_TTL_MINUTES", 30),
			MaxTurns:          getEnvAsInt("CHAT_MAX_TURNS", 20),
		},
	}

	if cfg.Signup.AMCutoffHour <= 0 || cfg.Signup.AMCutoffHour > 23 {
		return nil, fmt.Errorf("invalid SIGNUP_AM_CUTOFF_HOUR: %d", cfg.Signup.AMCutoffHour)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns the chat conversation expiry.
func (c ChatConfig) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
