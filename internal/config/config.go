package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mkd-neo4j/seraph/configs"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file configuration.
const (
	EnvCacheEnabled    = "SERAPH_CACHE_ENABLED"
	EnvCacheTTLMillis  = "SERAPH_CACHE_TTL_MS"
	EnvCacheMaxEntries = "SERAPH_CACHE_MAX_ENTRIES"
	EnvBatchSize       = "SERAPH_BATCH_SIZE"
	EnvLogLevel        = "SERAPH_LOG_LEVEL"
	EnvLogFormat       = "SERAPH_LOG_FORMAT"
	EnvURI             = "NEO4J_URI"
	EnvUsername        = "NEO4J_USERNAME"
	EnvPassword        = "NEO4J_PASSWORD"
	EnvDatabase        = "NEO4J_DATABASE"
	EnvReadOnly        = "NEO4J_READ_ONLY"
	EnvSchemaSample    = "NEO4J_SCHEMA_SAMPLE_SIZE"
	EnvQueriesDir      = "SERAPH_QUERIES_DIR"
)

// Config holds the settings for the execution engine, the Neo4j connection
// and the MCP server.
type Config struct {
	// CacheEnabled turns result caching on or off
	CacheEnabled bool

	// CacheTTL is how long a cached result stays valid
	CacheTTL time.Duration

	// CacheMaxEntries bounds the number of cached results
	CacheMaxEntries int

	// BatchSize is the number of statements committed per transaction in a batch
	BatchSize int

	URI      string
	Username string
	Password string
	Database string

	// ReadOnly hides tools that write to the database
	ReadOnly bool

	// SchemaSampleSize caps the relationships sampled by get-schema
	SchemaSampleSize int

	// QueriesDir is an optional directory of named query files served as
	// tools in addition to the embedded ones
	QueriesDir string

	LogLevel  string
	LogFormat string
}

type fileConfig struct {
	Cache struct {
		Enabled    *bool  `yaml:"enabled"`
		TTLMillis  *int64 `yaml:"ttlMillis"`
		MaxEntries *int   `yaml:"maxEntries"`
	} `yaml:"cache"`
	Batch struct {
		Size *int `yaml:"size"`
	} `yaml:"batch"`
	Neo4j struct {
		URI      *string `yaml:"uri"`
		Username *string `yaml:"username"`
		Password *string `yaml:"password"`
		Database *string `yaml:"database"`
	} `yaml:"neo4j"`
	ReadOnly *bool `yaml:"readOnly"`
	Schema   struct {
		SampleSize *int `yaml:"sampleSize"`
	} `yaml:"schema"`
	Queries  struct {
		Dir *string `yaml:"dir"`
	} `yaml:"queries"`
	Log      struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.applyYAML(configs.Default); err != nil {
		return nil, fmt.Errorf("failed to parse embedded default config: %w", err)
	}
	return cfg, nil
}

// Load builds the configuration from the embedded defaults, then the YAML
// file at path (skipped when path is empty), then environment variables.
// The result is validated.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := cfg.applyYAML(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.Cache.Enabled != nil {
		c.CacheEnabled = *fc.Cache.Enabled
	}
	if fc.Cache.TTLMillis != nil {
		c.CacheTTL = time.Duration(*fc.Cache.TTLMillis) * time.Millisecond
	}
	if fc.Cache.MaxEntries != nil {
		c.CacheMaxEntries = *fc.Cache.MaxEntries
	}
	if fc.Batch.Size != nil {
		c.BatchSize = *fc.Batch.Size
	}
	if fc.Neo4j.URI != nil {
		c.URI = *fc.Neo4j.URI
	}
	if fc.Neo4j.Username != nil {
		c.Username = *fc.Neo4j.Username
	}
	if fc.Neo4j.Password != nil {
		c.Password = *fc.Neo4j.Password
	}
	if fc.Neo4j.Database != nil {
		c.Database = *fc.Neo4j.Database
	}
	if fc.ReadOnly != nil {
		c.ReadOnly = *fc.ReadOnly
	}
	if fc.Schema.SampleSize != nil {
		c.SchemaSampleSize = *fc.Schema.SampleSize
	}
	if fc.Queries.Dir != nil {
		c.QueriesDir = *fc.Queries.Dir
	}
	if fc.Log.Level != nil {
		c.LogLevel = *fc.Log.Level
	}
	if fc.Log.Format != nil {
		c.LogFormat = *fc.Log.Format
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvCacheEnabled); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCacheEnabled, err))
		}
		c.CacheEnabled = b
	}
	if v, ok := lookup(EnvCacheTTLMillis); ok {
		ms, err := cast.ToInt64E(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCacheTTLMillis, err))
		}
		c.CacheTTL = time.Duration(ms) * time.Millisecond
	}
	if v, ok := lookup(EnvCacheMaxEntries); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCacheMaxEntries, err))
		}
		c.CacheMaxEntries = n
	}
	if v, ok := lookup(EnvBatchSize); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvBatchSize, err))
		}
		c.BatchSize = n
	}
	if v, ok := lookup(EnvReadOnly); ok {
		b, err := cast.ToBoolE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvReadOnly, err))
		}
		c.ReadOnly = b
	}
	if v, ok := lookup(EnvSchemaSample); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSchemaSample, err))
		}
		c.SchemaSampleSize = n
	}

	strs := map[string]*string{
		EnvURI:        &c.URI,
		EnvUsername:   &c.Username,
		EnvPassword:   &c.Password,
		EnvDatabase:   &c.Database,
		EnvLogLevel:   &c.LogLevel,
		EnvLogFormat:  &c.LogFormat,
		EnvQueriesDir: &c.QueriesDir,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	return errors.Join(errs...)
}

// ValidateEngine checks only the settings the execution engine reads, so an
// engine can be built from a configuration without connection details.
func (c *Config) ValidateEngine() error {
	return errors.Join(c.engineErrors()...)
}

func (c *Config) engineErrors() []error {
	var errs []error
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("cache TTL must be greater than 0, got %s", c.CacheTTL))
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be greater than 0, got %d", c.BatchSize))
	}
	if c.CacheMaxEntries < 0 {
		errs = append(errs, fmt.Errorf("cache max entries must not be negative, got %d", c.CacheMaxEntries))
	}
	return errs
}

// Validate checks every setting, including the engine subset.
func (c *Config) Validate() error {
	errs := c.engineErrors()
	if c.SchemaSampleSize <= 0 {
		errs = append(errs, fmt.Errorf("schema sample size must be greater than 0, got %d", c.SchemaSampleSize))
	}
	if strings.TrimSpace(c.URI) == "" {
		errs = append(errs, errors.New("neo4j URI is required"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}
