package mdtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/logging/console"
	"github.com/goliatone/go-mdtree/internal/logging/gologger"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// NewLoggerProvider builds the provider selected by cfg. Console entries go
// to w, or stdout when w is nil. A disabled config yields a nil provider,
// which every module logger treats as a no-op.
func NewLoggerProvider(cfg LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "", "console":
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// ModuleLogger returns the named module logger of provider, e.g. "mdtree.import".
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	return logging.ModuleLogger(provider, module)
}
