package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 300000*time.Millisecond, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 10000, cfg.CacheMaxEntries)
	assert.Equal(t, "bolt://localhost:7687", cfg.URI)
	assert.False(t, cfg.ReadOnly)
	assert.Equal(t, 1000, cfg.SchemaSampleSize)
	assert.Empty(t, cfg.QueriesDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cache:
  enabled: false
  ttlMillis: 1500
batch:
  size: 25
neo4j:
  uri: neo4j://graph:7687
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 1500*time.Millisecond, cfg.CacheTTL)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, "neo4j://graph:7687", cfg.URI)
	// untouched keys keep their defaults
	assert.Equal(t, "neo4j", cfg.Username)
	assert.Equal(t, 10000, cfg.CacheMaxEntries)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch:\n  size: 25\n"), 0o600))

	t.Setenv(EnvBatchSize, "7")
	t.Setenv(EnvCacheTTLMillis, "250")
	t.Setenv(EnvCacheEnabled, "false")
	t.Setenv(EnvURI, "bolt://env:7687")
	t.Setenv(EnvReadOnly, "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.CacheTTL)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, "bolt://env:7687", cfg.URI)
	assert.True(t, cfg.ReadOnly)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv(EnvBatchSize, "many")

	_, err := Load("")
	assert.ErrorContains(t, err, EnvBatchSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "batch size"},
		{"negative batch size", func(c *Config) { c.BatchSize = -1 }, "batch size"},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }, "cache TTL"},
		{"missing uri", func(c *Config) { c.URI = " " }, "URI"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log format"},
		{"negative max entries", func(c *Config) { c.CacheMaxEntries = -5 }, "max entries"},
		{"zero schema sample", func(c *Config) { c.SchemaSampleSize = 0 }, "sample size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateEngine_IgnoresConnectionSettings(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.URI = ""
	cfg.SchemaSampleSize = 0
	cfg.LogFormat = "xml"

	assert.NoError(t, cfg.ValidateEngine())
	assert.Error(t, cfg.Validate())

	cfg.BatchSize = 0
	assert.ErrorContains(t, cfg.ValidateEngine(), "batch size")
	cfg.BatchSize = 1
	cfg.CacheTTL = 0
	assert.ErrorContains(t, cfg.ValidateEngine(), "cache TTL")
	cfg.CacheTTL = time.Second
	cfg.CacheMaxEntries = -1
	assert.ErrorContains(t, cfg.ValidateEngine(), "max entries")
}

func TestLoad_SchemaAndQueriesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema:\n  sampleSize: 50\nqueries:\n  dir: /etc/seraph/queries\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.SchemaSampleSize)
	assert.Equal(t, "/etc/seraph/queries", cfg.QueriesDir)

	t.Setenv(EnvSchemaSample, "10")
	t.Setenv(EnvQueriesDir, "./queries")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.SchemaSampleSize)
	assert.Equal(t, "./queries", cfg.QueriesDir)
}
