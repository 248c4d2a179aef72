package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/behavior-profile/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	// Optional submission journal; disabled when empty
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MigrationsPath      string        `env:"MIGRATIONS_PATH" envDefault:"internal/repository/migrations"`

	// Scoring service (questions, submission, result)
	ScoringCfg ScoringConnectorConfig `envPrefix:"SCORING_"`

	AssessmentCfg AssessmentConfig `envPrefix:"ASSESSMENT_"`
	AuthCfg       AuthConfig       `envPrefix:"AUTH_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only used by the bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type ScoringConnectorConfig struct {
	HTTPClientConfig
	QuestionsEndpoint string               `env:"QUESTIONS_ENDPOINT" envDefault:"/behavioral-questions"`
	SubmitEndpoint    string               `env:"SUBMIT_ENDPOINT" envDefault:"/behavioral-profile/answers"`
	ResultEndpoint    string               `env:"RESULT_ENDPOINT" envDefault:"/behavioral-profile/result"`
	Retry             pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"15s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"30s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"10s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

type AssessmentConfig struct {
	AutoAdvanceDelay time.Duration `env:"AUTO_ADVANCE_DELAY" envDefault:"400ms"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	CleanupInterval  time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

type AuthConfig struct {
	// DevToken is used when a caller presents no token of its own. Local runs only.
	DevToken string        `env:"DEV_TOKEN"`
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	MaxConcurrentUsers int    `env:"MAX_CONCURRENT_USERS" envDefault:"100"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

// JournalEnabled reports whether submissions are written to Postgres
func (c *Config) JournalEnabled() bool {
	return c.DatabaseURL != ""
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment and validates it
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if !cfg.EnableMocks && cfg.ScoringCfg.Url == "" {
		errors = append(errors, "SCORING_SERVICE_URL is required unless ENABLE_MOCKS is set")
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout))
	}

	if cfg.AssessmentCfg.AutoAdvanceDelay < 0 || cfg.AssessmentCfg.AutoAdvanceDelay > 5*time.Second {
		errors = append(errors, fmt.Sprintf("ASSESSMENT_AUTO_ADVANCE_DELAY must be between 0 and 5s, got %s", cfg.AssessmentCfg.AutoAdvanceDelay))
	}

	if cfg.AssessmentCfg.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("ASSESSMENT_SESSION_TTL must be at least 1m, got %s", cfg.AssessmentCfg.SessionTTL))
	}

	if cfg.ScoringCfg.Retry.Attempts > 10 {
		errors = append(errors, fmt.Sprintf("SCORING_RETRY_ATTEMPTS must be at most 10, got %d", cfg.ScoringCfg.Retry.Attempts))
	}

	// Validate Telegram configuration
	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	// Validate Database configuration
	if cfg.JournalEnabled() {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}

		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// ValidateTelegram checks the settings the bot binary cannot start without
func (c *Config) ValidateTelegram() error {
	if c.TelegramCfg.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.TelegramCfg.MaxConcurrentUsers < 1 {
		return fmt.Errorf("TELEGRAM_MAX_CONCURRENT_USERS must be positive, got %d", c.TelegramCfg.MaxConcurrentUsers)
	}
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
