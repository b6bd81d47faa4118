// Package config loads application configuration from config.yaml and
// ACTIVITYRANK_* environment variables, and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Rank     RankConfig     `yaml:"rank" mapstructure:"rank"`
	Import   ImportConfig   `yaml:"import" mapstructure:"import"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RegistryConfig points at an alternative registry data directory.
// Empty means the embedded registries.
type RegistryConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CacheConfig bounds the timestamp parse cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// RankConfig holds defaults applied to ranking calls.
type RankConfig struct {
	HomeSchool string `yaml:"home_school" mapstructure:"home_school"`
	Language   string `yaml:"language" mapstructure:"language"`
}

// ImportConfig configures snapshot imports.
type ImportConfig struct {
	Sources []string `yaml:"sources" mapstructure:"sources"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads config.yaml (optional) and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ACTIVITYRANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "activity-rank.db")
	v.SetDefault("cache.max_entries", 100)
	v.SetDefault("rank.language", "zh")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.rate_limit_rps", 20)
	v.SetDefault("server.rate_limit_burst", 40)
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

// Validate checks the configuration for the given run mode. Modes
// correspond to the top-level commands that need more than defaults.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch c.Store.Driver {
	case "sqlite":
		check(c.Store.SQLitePath != "", "store.sqlite_path is required for the sqlite driver")
	case "postgres":
		check(c.Store.DatabaseURL != "", "store.database_url is required for the postgres driver")
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	check(c.Cache.MaxEntries >= 0, "cache.max_entries must be >= 0")

	switch mode {
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
		check(c.Server.RateLimitRPS > 0, "server.rate_limit_rps must be > 0")
		check(c.Server.RateLimitBurst > 0, "server.rate_limit_burst must be > 0")
	case "import":
		check(len(c.Import.Sources) > 0, "import.sources must list at least one snapshot source")
	case "rank":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
