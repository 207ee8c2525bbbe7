package commands

import (
	"strings"

	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// CommandLogger returns the logger for a group of command handlers, such as
// "convert". Entries carry the group so handler logs can be filtered by it.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	scope := logging.ScopeCommands.Child(group)
	if scope == logging.ScopeCommands {
		scope = scope.Child("core")
	}
	return logging.WithFields(scope.Logger(provider), map[string]any{
		"component":     "command",
		"command_group": strings.TrimPrefix(string(scope), string(logging.ScopeCommands)+"."),
	})
}
