package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Fetch    FetchConfig    `mapstructure:"fetch" yaml:"fetch"`
	Cache    CacheConfig    `mapstructure:"cache" yaml:"cache"`
	Compiler CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// OutputConfig contains destination directory settings
type OutputConfig struct {
	// Directory overrides the sanitized-repo-name destination when set
	Directory string `mapstructure:"directory" yaml:"directory"`
	// Overwrite replaces an existing destination without confirmation
	Overwrite bool `mapstructure:"overwrite" yaml:"overwrite"`
}

// FetchConfig contains archive download settings
type FetchConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxArchiveSize string        `mapstructure:"max_archive_size" yaml:"max_archive_size"`
	// Retries is the number of extra attempts per branch reference.
	// 0 keeps the single-attempt contract.
	Retries int `mapstructure:"retries" yaml:"retries"`
}

// CacheConfig contains archive cache settings
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
}

// CompilerConfig contains external compiler settings
type CompilerConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, clamping out-of-range values to
// their defaults.
func (c *Config) Validate() error {
	if c.Fetch.Timeout < time.Second {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.Retries < 0 {
		c.Fetch.Retries = 0
	}
	if c.Fetch.MaxArchiveSize == "" {
		c.Fetch.MaxArchiveSize = DefaultMaxArchiveSize
	} else {
		if _, err := ParseSize(c.Fetch.MaxArchiveSize); err != nil {
			return fmt.Errorf("invalid fetch.max_archive_size: %w", err)
		}
	}
	if c.Cache.TTL < time.Minute {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Compiler.Path == "" {
		c.Compiler.Path = DefaultCompilerPath
	}
	return nil
}

// MaxArchiveBytes returns the configured archive size cap in bytes.
func (c *Config) MaxArchiveBytes() int64 {
	n, err := ParseSize(c.Fetch.MaxArchiveSize)
	if err != nil || n <= 0 {
		n, _ = ParseSize(DefaultMaxArchiveSize)
	}
	return n
}

// ParseSize parses a human-readable size string like "100MB"
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
