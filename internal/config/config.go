package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// NHL API
	NHLAPIBaseURL string        `envconfig:"NHL_API_BASE_URL" default:"https://api-web.nhle.com/v1"`
	NHLAPITimeout time.Duration `envconfig:"NHL_API_TIMEOUT" default:"10s"`
	MaxRetries    int           `envconfig:"MAX_RETRIES" default:"3"`
	RetryDelay    time.Duration `envconfig:"RETRY_DELAY" default:"1s"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nhl_v1"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nhl_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (optional box-score payload cache)
	RedisHost       string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort       int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword   string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`
	CacheEnabled    bool          `envconfig:"CACHE_ENABLED" default:"true"`
	CacheTTLBoxscore time.Duration `envconfig:"CACHE_TTL_BOXSCORE" default:"24h"`

	// Sync window
	SyncStartDate string `envconfig:"SYNC_START_DATE" default:""`
	SyncEndDate   string `envconfig:"SYNC_END_DATE" default:""`
	SeasonFilter  string `envconfig:"SEASON_FILTER" default:""`

	// Feature pipeline
	RollingWindow     int `envconfig:"ROLLING_WINDOW" default:"5"`
	SeasonCutoffMonth int `envconfig:"SEASON_CUTOFF_MONTH" default:"10"`

	// Backtest
	BacktestTarget string  `envconfig:"BACKTEST_TARGET" default:"goals"`
	RidgeAlpha     float64 `envconfig:"RIDGE_ALPHA" default:"0.001"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Worker
	NightlyRefreshCron string `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 2 * * *"`
	SyncLookbackDays   int    `envconfig:"SYNC_LOOKBACK_DAYS" default:"7"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables.
// It first attempts to load from a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}
	if c.RollingWindow < 1 {
		return fmt.Errorf("ROLLING_WINDOW must be at least 1")
	}
	if c.SeasonCutoffMonth < 1 || c.SeasonCutoffMonth > 12 {
		return fmt.Errorf("SEASON_CUTOFF_MONTH must be 1..12")
	}
	if c.BacktestTarget != "goals" && c.BacktestTarget != "goal_diff" {
		return fmt.Errorf("BACKTEST_TARGET must be goals or goal_diff")
	}
	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// MustLoad loads configuration or exits on error.
// Use this in main() where we want to fail fast.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
