package bootstrap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/goliatone/go-mdtree"
	"github.com/google/uuid"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	ContentDir string
	Pattern    string
	Extended   bool
	// Storage selects "memory" or "bun". Driver and DSN apply to bun.
	Storage  string
	Driver   string
	DSN      string
	Cache    bool
	LogLevel string
	// LogFormat switches logging to go-logger when set.
	LogFormat string
	Verbose   bool
	LogWriter io.Writer
	// FS replaces ContentDir, mainly for tests.
	FS fs.FS
}

// BuildModule constructs an mdtree module with Markdown loading enabled.
func BuildModule(ctx context.Context, opts Options) (*mdtree.Module, error) {
	cfg := mdtree.DefaultConfig()
	cfg.Conversion.Extended = opts.Extended
	cfg.Markdown.Enabled = true
	cfg.Markdown.ContentDir = strings.TrimSpace(opts.ContentDir)
	if cfg.Markdown.ContentDir == "" {
		cfg.Markdown.ContentDir = "."
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Markdown.Pattern = trimmed
	}

	if trimmed := strings.TrimSpace(opts.Storage); trimmed != "" {
		cfg.Storage.Provider = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Driver); trimmed != "" {
		cfg.Storage.Driver = trimmed
	}
	cfg.Storage.DSN = strings.TrimSpace(opts.DSN)
	cfg.Cache.Enabled = opts.Cache

	cfg.Logging.Enabled = opts.Verbose
	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogFormat); trimmed != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = trimmed
	}

	moduleOpts := []mdtree.ModuleOption{}
	if opts.LogWriter != nil {
		moduleOpts = append(moduleOpts, mdtree.WithLogWriter(opts.LogWriter))
	}
	if opts.FS != nil {
		moduleOpts = append(moduleOpts, mdtree.WithFS(opts.FS))
	}

	module, err := mdtree.New(ctx, cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise mdtree module: %w", err)
	}
	return module, nil
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}
