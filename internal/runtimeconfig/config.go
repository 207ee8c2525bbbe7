package runtimeconfig

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrMarkdownContentDirRequired guards file based conversion without a source directory.
var ErrMarkdownContentDirRequired = errors.New("mdtree config: markdown content directory is required when markdown loading is enabled")

// ErrMarkdownPatternInvalid reports a glob pattern that cannot be matched.
var ErrMarkdownPatternInvalid = errors.New("mdtree config: markdown pattern is invalid")

// ErrStorageProviderUnknown rejects storage providers other than memory and bun.
var ErrStorageProviderUnknown = errors.New("mdtree config: storage provider is invalid")
var ErrStorageDriverUnknown = errors.New("mdtree config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("mdtree config: storage dsn is required for the bun provider")
var ErrCacheTTLInvalid = errors.New("mdtree config: cache ttl must be zero or positive")
var ErrLoggingProviderRequired = errors.New("mdtree config: logging provider is required when logging is enabled")
var ErrLoggingProviderUnknown = errors.New("mdtree config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("mdtree config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("mdtree config: logging format is invalid")

// Config aggregates conversion behaviour and adapter bindings for mdtree hosts.
type Config struct {
	Conversion ConversionConfig
	Markdown   MarkdownConfig
	Storage    StorageConfig
	Cache      CacheConfig
	Logging    LoggingConfig
}

// ConversionConfig selects the transformer set and import/export options.
type ConversionConfig struct {
	PreserveNewlines bool
	// Normalize merges soft-wrapped lines before import.
	Normalize bool
	// Extended adds check lists and horizontal rules to the default set.
	Extended bool
}

// MarkdownConfig captures filesystem and parser behaviour for Markdown files.
type MarkdownConfig struct {
	Enabled     bool
	ContentDir  string
	Pattern     string
	Recursive   bool
	Frontmatter bool
	Parser      MarkdownParserConfig
}

// MarkdownParserConfig configures the goldmark HTML renderer.
type MarkdownParserConfig struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}

// StorageConfig selects where conversion snapshots are persisted.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig captures read-through cache behaviour for snapshot lookups.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Enabled   bool
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns in-memory storage, console logging and the default
// transformer set.
func DefaultConfig() Config {
	return Config{
		Conversion: ConversionConfig{},
		Markdown: MarkdownConfig{
			ContentDir:  "content",
			Pattern:     "*.md",
			Recursive:   true,
			Frontmatter: true,
			Parser: MarkdownParserConfig{
				Extensions: []string{"strikethrough", "linkify"},
			},
		},
		Storage: StorageConfig{
			Provider: "memory",
			Driver:   "sqlite",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Markdown.Enabled && strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if pattern := strings.TrimSpace(cfg.Markdown.Pattern); pattern != "" {
		if _, err := path.Match(pattern, "probe.md"); err != nil {
			return fmt.Errorf("%w: %s", ErrMarkdownPatternInvalid, pattern)
		}
	}

	switch provider := normalizeName(cfg.Storage.Provider); provider {
	case "", "memory":
	case "bun":
		if driver := normalizeName(cfg.Storage.Driver); !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}

	if cfg.Logging.Enabled {
		provider := normalizeName(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "sqlite3", "postgres", "pg":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
