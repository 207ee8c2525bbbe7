package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// Scope names the logger a part of mdtree writes to. Scopes nest with dots.
type Scope string

const (
	ScopeRoot      Scope = "mdtree"
	ScopeImport    Scope = "mdtree.import"
	ScopeCommands  Scope = "mdtree.commands"
	ScopeSnapshots Scope = "mdtree.snapshots"
	ScopeMarkdown  Scope = "mdtree.markdown"
)

// Child returns the scope nested under s. Blank names return s.
func (s Scope) Child(name string) Scope {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return s
	}
	return Scope(string(s) + "." + strings.ToLower(name))
}

// Logger resolves s against provider.
func (s Scope) Logger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, string(s))
}

// ModuleLogger returns the logger provider hands out for module, tagged with
// a module field. A nil provider, or one that returns nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = string(ScopeRoot)
	}
	var logger interfaces.Logger = noopLogger{}
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return WithFields(logger, map[string]any{"module": module})
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger { return n }

func (n noopLogger) WithContext(context.Context) interfaces.Logger { return n }
