// Package config loads vennsync settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ukaji3/vennsync/pkg/vennsync"
	"github.com/ukaji3/vennsync/pkg/vennsync/index"
	"github.com/ukaji3/vennsync/pkg/vennsync/partition"
	"github.com/ukaji3/vennsync/pkg/vennsync/venn"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the settings of a vennsync run.
type Config struct {
	LabelFormat string        `yaml:"label_format"`
	Palette     []string      `yaml:"palette"`
	Cache       CacheConfig   `yaml:"cache"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	LogLevel    string        `yaml:"log_level"`
}

// CacheConfig selects where binding indexes are kept between edits.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	TTL     time.Duration `yaml:"ttl"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		LabelFormat: partition.DefaultFormat,
		Cache: CacheConfig{
			Backend: BackendMemory,
			TTL:     index.DefaultTTL,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	for _, color := range c.Palette {
		if _, err := venn.ParseColor(color); err != nil {
			errs = append(errs, err)
		}
	}
	switch c.CacheBackend() {
	case BackendMemory, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("negative cache ttl %s", c.Cache.TTL))
	}
	if c.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("negative settle delay %s", c.SettleDelay))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Options returns engine options for the configuration.
func (c Config) Options(logger *zap.Logger) vennsync.Options {
	opts := vennsync.DefaultOptions()
	if c.LabelFormat != "" {
		opts.LabelFormat = c.LabelFormat
	}
	opts.Palette = c.Palette
	if c.Cache.TTL > 0 {
		opts.CacheTTL = c.Cache.TTL
	}
	opts.Logger = logger
	return opts
}

// Logger builds a logger at LogLevel. Debug logging uses the human-readable
// development encoder.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// CacheBackend returns the configured cache backend in canonical form. An
// unset backend is the memory cache.
func (c Config) CacheBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if backend == "" {
		return BackendMemory
	}
	return backend
}

// OpenCache opens the configured index cache. The returned function releases it.
func (c Config) OpenCache() (index.Cache, func() error, error) {
	switch c.CacheBackend() {
	case BackendMemory:
		return index.NewMemoryCache(0), func() error { return nil }, nil
	case BackendSQLite:
		path := c.Cache.Path
		if path == "" {
			dir, err := os.UserCacheDir()
			if err != nil {
				return nil, nil, err
			}
			path = filepath.Join(dir, "vennsync", "index.db")
		}
		cache, err := index.OpenSQLiteCache(path)
		if err != nil {
			return nil, nil, err
		}
		return cache, cache.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
}
