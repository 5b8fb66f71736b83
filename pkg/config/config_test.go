package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SourceMemory, cfg.Catalog.Source)
	assert.Equal(t, 24, cfg.Catalog.PageSize)
	assert.Equal(t, 6, cfg.Catalog.Retry.MaxAttempts)
	assert.Equal(t, 350*time.Millisecond, cfg.Catalog.Retry.InitialDelay)
	assert.InDelta(t, 1.75, cfg.Catalog.Retry.Multiplier, 1e-9)
	assert.Equal(t, 100, cfg.Ranking.Base)
	assert.InDelta(t, 0.65, cfg.Ranking.ValueDecay, 1e-9)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9100
catalog:
  source: remote
  remote:
    baseUrl: http://catalog.internal:5000
ranking:
  topLabel: 5
`)
	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, SourceRemote, cfg.Catalog.Source)
	assert.Equal(t, "http://catalog.internal:5000", cfg.Catalog.Remote.BaseURL)
	assert.Equal(t, 5, cfg.Ranking.TopLabel)
	// untouched sections keep defaults
	assert.Equal(t, 0.5, cfg.Ranking.HighPriorityThreshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9100\n")
	t.Setenv("BD_SERVER_PORT", "9200")
	t.Setenv("BD_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("BD_CATALOG_RETRY_MAX_ATTEMPTS", "3")
	t.Setenv("BD_REDIS_CACHE_TTL", "2m")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Catalog.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.ErrorContains(t, err, "parsing config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"source", func(c *Config) { c.Catalog.Source = "ftp" }, "unknown catalog source"},
		{"remote url", func(c *Config) { c.Catalog.Source = SourceRemote }, "baseUrl is required"},
		{"page size", func(c *Config) { c.Catalog.PageSize = 1000 }, "catalog.pageSize"},
		{"decay", func(c *Config) { c.Ranking.ValueDecay = 1.5 }, "valueDecay"},
		{"threshold", func(c *Config) { c.Ranking.HighPriorityThreshold = 0 }, "highPriorityThreshold"},
		{"base", func(c *Config) { c.Ranking.Base = 1 }, "ranking.base"},
		{"jitter", func(c *Config) { c.Catalog.Retry.JitterMax = 0.5 }, "jitter range"},
		{"metrics port", func(c *Config) { c.Metrics.Port = c.Server.Port }, "collides"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}
	assert.NoError(t, defaultConfig().Validate())
}

func TestDevelopmentConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "development.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", p.DSN())
}
