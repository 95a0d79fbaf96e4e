package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/rag-client/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Gateway HTTP server
	ServerAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Optional PostgreSQL session storage. Sessions live in memory when empty.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// RAG backend
	RAGConnectorCfg RAGConnectorConfig `envPrefix:"RAG_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`
	SessionCfg    SessionConfig    `envPrefix:"SESSION_"`

	// Replace the RAG backend with canned replies
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only read by the bot)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type RAGConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint string               `env:"UPLOAD_ENDPOINT" envDefault:"/upload/"`
	ChatEndpoint   string               `env:"CHAT_ENDPOINT" envDefault:"/chat/"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"120s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"110s"`
	InsecureSkipVerify    bool          `env:"INSECURE_SKIP_VERIFY" envDefault:"false"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds client-side upload limits
type FileUploadConfig struct {
	MaxFileSize       int64    `env:"MAX_FILE_SIZE" envDefault:"20971520"` // 20 MiB
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envSeparator:","` // empty = any
}

// SessionConfig controls the in-memory session store
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
}

// LoadConfig reads .env.<environment> if present, then the process environment.
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// A missing file is fine when the variables come from the environment.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	return Parse(environment)
}

// Parse builds the config from the current environment only.
func Parse(environment string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

type check struct {
	ok  bool
	msg string
}

func validateConfig(cfg *Config) error {
	rag, tg := cfg.RAGConnectorCfg, cfg.TelegramCfg
	checks := []check{
		{
			strings.HasPrefix(rag.Url, "http://") || strings.HasPrefix(rag.Url, "https://"),
			fmt.Sprintf("RAG_SERVICE_URL must be an http(s) URL, got %q", rag.Url),
		},
		{
			rag.Retry.Attempts >= 1 && rag.Retry.Attempts <= 10,
			fmt.Sprintf("RAG_RETRY_ATTEMPTS must be between 1 and 10, got %d", rag.Retry.Attempts),
		},
		{
			cfg.FileUploadCfg.MaxFileSize > 0,
			fmt.Sprintf("FILE_UPLOAD_MAX_FILE_SIZE must be positive, got %d", cfg.FileUploadCfg.MaxFileSize),
		},
		{
			tg.RateLimitPerMinute >= 1 && tg.RateLimitPerMinute <= 60,
			fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", tg.RateLimitPerMinute),
		},
		{
			tg.ShutdownTimeout >= 1 && tg.ShutdownTimeout <= 300,
			fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", tg.ShutdownTimeout),
		},
		{
			cfg.DatabaseURL == "" || (cfg.DBMinConns >= 0 && cfg.DBMinConns <= cfg.DBMaxConns),
			fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns),
		},
	}

	var errs []error
	for _, c := range checks {
		if !c.ok {
			errs = append(errs, errors.New(c.msg))
		}
	}
	return errors.Join(errs...)
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
