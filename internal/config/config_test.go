package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
app:
  name: oddsboard
  environment: development
  log_level: debug
server:
  port: 8080
  read_timeout_seconds: 10
  write_timeout_seconds: 20
  allowed_origins: ["*"]
odds_api:
  base_url: https://api.the-odds-api.com/v4
  api_key: ${TEST_ODDS_API_KEY}
  regions: us
  bookmakers: [fanduel, draftkings, betmgm, caesars]
  cache_ttl_seconds: 60
providers:
  leagues: [MLB, NHL, NBA]
  timeout_seconds: 30
  per_fetch_budget_seconds: 8
  max_retries: 3
  rate_limit: 5
ratings:
  enabled: true
  backend: memory
refresh:
  cron: "*/5 * * * *"
  board_ttl_seconds: 300
metrics:
  enabled: true
  path: /metrics
health:
  port: "8081"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "secret-key-123")

	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "oddsboard", cfg.App.Name)
	assert.Equal(t, "secret-key-123", cfg.OddsAPI.APIKey)
	assert.Equal(t, []string{"MLB", "NHL", "NBA"}, cfg.Providers.Leagues)
	assert.Equal(t, 60, cfg.OddsAPI.CacheTTLSec)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "k")
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
}

func TestValidateRejectsUnknownLeague(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "k")
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.Providers.Leagues = []string{"MLB", "XFL"}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "k")
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.App.Environment = "prod"
	assert.Error(t, Validate(cfg))
}

func TestValidateCrossFieldBudget(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "k")
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.Providers.PerFetchBudgetSec = cfg.Providers.TimeoutSec + 1
	assert.Error(t, Validate(cfg))
}

func TestValidatePostgresRatingsRequiresConnInfo(t *testing.T) {
	t.Setenv("TEST_ODDS_API_KEY", "k")
	cfg, err := Load(writeTestConfig(t, testConfigYAML))
	require.NoError(t, err)

	cfg.Ratings.Backend = "postgres"
	assert.Error(t, Validate(cfg))

	cfg.Ratings.Host = "localhost"
	cfg.Ratings.Port = 5432
	cfg.Ratings.Name = "oddsboard"
	cfg.Ratings.User = "odds"
	cfg.Ratings.SSLMode = "disable"
	assert.NoError(t, Validate(cfg))
}
