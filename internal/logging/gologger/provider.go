// Package gologger backs mdtree logging with github.com/goliatone/go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// Config selects how the go-logger root logger writes entries.
type Config struct {
	// Level is trace, debug, info, warn, error or fatal. Unknown or blank
	// values keep the go-logger default.
	Level string
	// Format is json (the default), console or pretty.
	Format string
	// AddSource records the caller location on every entry.
	AddSource bool
	// Focus limits output to the named scopes, e.g. "mdtree.import".
	Focus []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

func levelFor(level string) string {
	return levels[strings.ToLower(strings.TrimSpace(level))]
}

func (c Config) options() ([]glog.Option, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(c.Format))]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", c.Format)
	}
	opts := []glog.Option{format()}
	if level := levelFor(c.Level); level != "" {
		opts = append(opts, glog.WithLevel(level))
	}
	if c.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}
	return opts, nil
}

// Provider hands out one go-logger child per mdtree scope. Children are
// created on first use and reused after that.
type Provider struct {
	root *glog.BaseLogger

	mu       sync.Mutex
	children map[string]interfaces.Logger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds the root logger described by cfg.
func NewProvider(cfg Config) (*Provider, error) {
	opts, err := cfg.options()
	if err != nil {
		return nil, err
	}
	root := glog.NewLogger(opts...)
	focus := slices.DeleteFunc(slices.Clone(cfg.Focus), func(name string) bool {
		return strings.TrimSpace(name) == ""
	})
	for i := range focus {
		focus[i] = strings.TrimSpace(focus[i])
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root, children: make(map[string]interfaces.Logger)}, nil
}

// GetLogger returns the logger for scope name. A blank name yields the root.
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return newEntryLogger(p.root)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if logger, ok := p.children[name]; ok {
		return logger
	}
	logger := newEntryLogger(p.root.GetLogger(name))
	if p.children == nil {
		p.children = make(map[string]interfaces.Logger)
	}
	p.children[name] = logger
	return logger
}

func newEntryLogger(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return entryLogger{inner: inner}
}

// entryLogger exposes a go-logger logger as an interfaces.Logger.
type entryLogger struct {
	inner glog.Logger
}

var _ interfaces.FieldsLogger = entryLogger{}

func (l entryLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l entryLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l entryLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l entryLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l entryLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l entryLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields prefers the go-logger fields extension. Loggers without it get
// the fields as sorted key/value pairs through With.
func (l entryLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	switch inner := l.inner.(type) {
	case glog.FieldsLogger:
		return newEntryLogger(inner.WithFields(maps.Clone(fields)))
	case interface{ With(...any) *glog.BaseLogger }:
		pairs := make([]any, 0, 2*len(fields))
		for _, key := range slices.Sorted(maps.Keys(fields)) {
			pairs = append(pairs, key, fields[key])
		}
		return newEntryLogger(inner.With(pairs...))
	default:
		return l
	}
}

func (l entryLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return newEntryLogger(l.inner.WithContext(ctx))
}
