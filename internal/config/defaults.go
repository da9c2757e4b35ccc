package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	DefaultFetchTimeout   = 30 * time.Second
	DefaultMaxArchiveSize = "100MB"
	DefaultRetries        = 0

	DefaultCacheEnabled = false
	DefaultCacheTTL     = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultCompilerPath is resolved lazily because it depends on the home
// directory.
var DefaultCompilerPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("md2pdf", "md2pdf")
	}
	return filepath.Join(home, "md2pdf", "md2pdf")
}()

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repodoc"
	}
	return filepath.Join(home, ".repodoc")
}

// CacheDir returns the cache directory path
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Directory: "",
			Overwrite: false,
		},
		Fetch: FetchConfig{
			Timeout:        DefaultFetchTimeout,
			MaxArchiveSize: DefaultMaxArchiveSize,
			Retries:        DefaultRetries,
		},
		Cache: CacheConfig{
			Enabled:   DefaultCacheEnabled,
			TTL:       DefaultCacheTTL,
			Directory: CacheDir(),
		},
		Compiler: CompilerConfig{
			Path: DefaultCompilerPath,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
