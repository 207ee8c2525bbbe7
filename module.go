package mdtree

import (
	"context"
	"errors"
	"io"
	"io/fs"

	convertcmd "github.com/goliatone/go-mdtree/internal/commands/convert"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/markdown"
	"github.com/goliatone/go-mdtree/internal/snapshots"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// SnapshotService exports the snapshot store contract.
type SnapshotService = *snapshots.Service

// LoadOptions exports the Markdown load options.
type LoadOptions = interfaces.LoadOptions

// CommandHandlers exports the conversion command handlers.
type CommandHandlers = *convertcmd.HandlerSet

// ModuleOption overrides a collaborator built by New.
type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	provider    interfaces.LoggerProvider
	hasProvider bool
	logWriter   io.Writer
	fsys        fs.FS
	syncOpts    []convertcmd.SyncHandlerOption
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) ModuleOption {
	return func(o *moduleOptions) {
		o.provider = provider
		o.hasProvider = true
	}
}

// WithLogWriter sends console log entries to w.
func WithLogWriter(w io.Writer) ModuleOption {
	return func(o *moduleOptions) {
		o.logWriter = w
	}
}

// WithFS reads Markdown files from fsys instead of Config.Markdown.ContentDir.
func WithFS(fsys fs.FS) ModuleOption {
	return func(o *moduleOptions) {
		o.fsys = fsys
	}
}

// WithSyncSchedule sets the cron expression and directory of the snapshot
// sync handler. Empty values keep the defaults.
func WithSyncSchedule(expression, dir string) ModuleOption {
	return func(o *moduleOptions) {
		o.syncOpts = append(o.syncOpts,
			convertcmd.SyncWithCronExpression(expression),
			convertcmd.SyncWithDirectory(dir),
		)
	}
}

// Module wires the conversion engine to file loading, snapshot storage and
// command handlers according to a Config.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	engine    *conversion.Engine
	markdown  *markdown.Service
	snapshots *snapshots.Service
	commands  *convertcmd.HandlerSet
	close     func() error
}

// New validates cfg and builds a module. Markdown loading and snapshots are
// only available when Config.Markdown.Enabled is set or an FS is supplied.
// Close releases the snapshot database.
func New(ctx context.Context, cfg Config, opts ...ModuleOption) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := moduleOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	provider := o.provider
	if !o.hasProvider {
		var err error
		if provider, err = NewLoggerProvider(cfg.Logging, o.logWriter); err != nil {
			return nil, err
		}
	}

	ts := TransformersFor(cfg.Conversion)
	m := &Module{
		cfg:      cfg,
		provider: provider,
		engine: conversion.New(ts, conversion.Options{
			PreserveNewlines: cfg.Conversion.PreserveNewlines,
			Normalize:        cfg.Conversion.Normalize,
			Logger:           logging.ScopeImport.Logger(provider),
		}),
		close: func() error { return nil },
	}

	deps := convertcmd.Dependencies{Transformers: ts}
	if cfg.Markdown.Enabled || o.fsys != nil {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.Markdown.ContentDir,
			FS:        o.fsys,
			Pattern:   cfg.Markdown.Pattern,
			Recursive: cfg.Markdown.Recursive,
			Parser: interfaces.ParseOptions{
				Extensions: cfg.Markdown.Parser.Extensions,
				HardWraps:  cfg.Markdown.Parser.HardWraps,
				SafeMode:   cfg.Markdown.Parser.SafeMode,
			},
			Transformers: ts,
			Conversion: conversion.Options{
				PreserveNewlines: cfg.Conversion.PreserveNewlines,
				Normalize:        cfg.Conversion.Normalize,
			},
			Logger: logging.ScopeMarkdown.Logger(provider),
		}, nil)
		if err != nil {
			return nil, err
		}

		repo, closeRepo, err := snapshots.NewRepository(ctx, cfg)
		if err != nil {
			return nil, err
		}
		m.markdown = svc
		m.close = closeRepo
		m.snapshots = snapshots.NewService(repo, svc, m.engine,
			snapshots.WithLogger(logging.ScopeSnapshots.Logger(provider)))
		deps.Markdown = svc
		deps.Snapshots = m.snapshots
	}

	handlers, err := convertcmd.RegisterConvertCommands(nil, deps, provider, o.syncOpts...)
	if err != nil {
		return nil, errors.Join(err, m.close())
	}
	m.commands = handlers
	return m, nil
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// LoggerProvider returns the provider module loggers are taken from. It is
// nil when logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// Engine returns the configured conversion engine.
func (m *Module) Engine() *Engine {
	return m.engine
}

// Markdown returns the file service, or nil when Markdown loading is off.
func (m *Module) Markdown() interfaces.MarkdownService {
	if m.markdown == nil {
		return nil
	}
	return m.markdown
}

// Snapshots returns the snapshot service, or nil when Markdown loading is off.
func (m *Module) Snapshots() SnapshotService {
	return m.snapshots
}

// Commands returns the conversion command handlers.
func (m *Module) Commands() CommandHandlers {
	return m.commands
}

// Close releases the snapshot database. It is safe to call more than once.
func (m *Module) Close() error {
	closeFn := m.close
	m.close = func() error { return nil }
	return closeFn()
}
