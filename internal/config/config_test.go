package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabasePassword:  "secret",
		RollingWindow:     5,
		SeasonCutoffMonth: 10,
		BacktestTarget:    "goals",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DatabasePassword = ""
	assert.Error(t, cfg.Validate(), "password is required")

	cfg = validConfig()
	cfg.RollingWindow = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.SeasonCutoffMonth = 13
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.BacktestTarget = "wins"
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.BacktestTarget = "goal_diff"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_DefaultsFromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api-web.nhle.com/v1", cfg.NHLAPIBaseURL)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.RollingWindow)
	assert.Equal(t, 10, cfg.SeasonCutoffMonth)
	assert.Equal(t, "goals", cfg.BacktestTarget)
	assert.Equal(t, "0 2 * * *", cfg.NightlyRefreshCron)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("ROLLING_WINDOW", "10")
	t.Setenv("BACKTEST_TARGET", "goal_diff")
	t.Setenv("SEASON_CUTOFF_MONTH", "9")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.RollingWindow)
	assert.Equal(t, "goal_diff", cfg.BacktestTarget)
	assert.Equal(t, 9, cfg.SeasonCutoffMonth)
}

func TestLoad_RejectsInvalidTarget(t *testing.T) {
	t.Setenv("DATABASE_PASSWORD", "secret")
	t.Setenv("BACKTEST_TARGET", "hat_tricks")

	_, err := Load()
	assert.Error(t, err)
}
