// Package config loads geocode-cli settings from config.yaml and the
// environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/geocode-cli/internal/dataset"
	"github.com/sells-group/geocode-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Google   GoogleConfig    `yaml:"google" mapstructure:"google"`
	Address  AddressConfig   `yaml:"address" mapstructure:"address"`
	Columns  dataset.Columns `yaml:"columns" mapstructure:"columns"`
	Pipeline PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig     `yaml:"store" mapstructure:"store"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
}

// GoogleConfig configures the Google Geocoding client.
type GoogleConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Country     string  `yaml:"country" mapstructure:"country"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"` // requests/sec, 0 = unpaced
}

// AddressConfig configures canonical address construction.
type AddressConfig struct {
	Country string `yaml:"country" mapstructure:"country"`
}

// PipelineConfig configures the resolution loop.
type PipelineConfig struct {
	MaxIterations   int  `yaml:"max_iterations" mapstructure:"max_iterations"`
	CheckpointEvery int  `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	MaterializeKeys bool `yaml:"materialize_keys" mapstructure:"materialize_keys"`
	SeedCache       bool `yaml:"seed_cache" mapstructure:"seed_cache"`
}

// StoreConfig configures where records are read from and written to.
type StoreConfig struct {
	Source    string `yaml:"source" mapstructure:"source"`
	Output    string `yaml:"output" mapstructure:"output"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	Table     string `yaml:"table" mapstructure:"table"`
	KeyColumn string `yaml:"key_column" mapstructure:"key_column"`
}

// Options converts the store settings for store.Open.
func (s StoreConfig) Options() store.Options {
	return store.Options{
		Output:    s.Output,
		Sheet:     s.Sheet,
		Table:     s.Table,
		KeyColumn: s.KeyColumn,
	}
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOCODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("google.api_key", "GEOCODE_GOOGLE_API_KEY", "GOOGLE_MAPS_API_KEY", "api_key"); err != nil {
		return nil, eris.Wrap(err, "config: bind api key")
	}

	// Defaults
	cols := dataset.DefaultColumns()
	v.SetDefault("google.base_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("google.country", "EC")
	v.SetDefault("google.timeout_secs", 10)
	v.SetDefault("google.rate_limit", 0)
	v.SetDefault("address.country", "ecuador")
	v.SetDefault("columns.street", cols.Street)
	v.SetDefault("columns.cross_street", cols.CrossStreet)
	v.SetDefault("columns.number", cols.Number)
	v.SetDefault("columns.neighborhood", cols.Neighborhood)
	v.SetDefault("columns.city", cols.City)
	v.SetDefault("columns.province", cols.Province)
	v.SetDefault("columns.coordinate", cols.Coordinate)
	v.SetDefault("columns.key", cols.Key)
	v.SetDefault("columns.display", cols.Display)
	v.SetDefault("pipeline.max_iterations", 0)
	v.SetDefault("pipeline.checkpoint_every", 50)
	v.SetDefault("pipeline.materialize_keys", true)
	v.SetDefault("pipeline.seed_cache", false)
	v.SetDefault("store.source", "")
	v.SetDefault("store.output", "")
	v.SetDefault("store.sheet", "")
	v.SetDefault("store.table", "records")
	v.SetDefault("store.key_column", "id")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs before it touches any data.
// mode is one of "run", "status" or "reset".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "run":
		if c.Google.APIKey == "" {
			errs = append(errs, "google.api_key is required (set GEOCODE_GOOGLE_API_KEY or GOOGLE_MAPS_API_KEY)")
		}
		if c.Google.TimeoutSecs <= 0 {
			errs = append(errs, "google.timeout_secs must be > 0")
		}
		if c.Google.RateLimit < 0 {
			errs = append(errs, "google.rate_limit must be >= 0")
		}
		if c.Pipeline.MaxIterations < 0 {
			errs = append(errs, "pipeline.max_iterations must be >= 0")
		}
		if c.Pipeline.CheckpointEvery < 0 {
			errs = append(errs, "pipeline.checkpoint_every must be >= 0")
		}
	case "status", "reset":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if strings.TrimSpace(c.Store.Source) == "" {
		errs = append(errs, "store.source is required (or pass --input)")
	}
	if strings.TrimSpace(c.Columns.Coordinate) == "" {
		errs = append(errs, "columns.coordinate is required")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Google.APIKey != "" {
		c.Google.APIKey = "REDACTED"
	}
	return c
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
