package convertcmd

import (
	"github.com/goliatone/go-mdtree/internal/commands"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers built by RegisterConvertCommands.
type HandlerSet struct {
	Import    *ImportHandler
	Export    *ExportHandler
	Render    *RenderHandler
	RoundTrip *RoundTripHandler
	Snapshot  *SnapshotHandler
	Sync      *SyncHandler
}

// RegisterConvertCommands builds every conversion handler and registers it
// with reg when reg is not nil.
func RegisterConvertCommands(reg CommandRegistry, deps Dependencies, provider interfaces.LoggerProvider, syncOpts ...SyncHandlerOption) (*HandlerSet, error) {
	logger := commands.CommandLogger(provider, "convert")

	set := &HandlerSet{
		Import:    NewImportHandler(deps, logger),
		Export:    NewExportHandler(deps, logger),
		Render:    NewRenderHandler(deps, logger),
		RoundTrip: NewRoundTripHandler(deps, logger),
		Snapshot:  NewSnapshotHandler(deps, logger),
		Sync:      NewSyncHandler(deps, logger, syncOpts...),
	}
	if reg == nil {
		return set, nil
	}
	for _, handler := range set.Handlers() {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Handlers lists the handlers in registration order.
func (s *HandlerSet) Handlers() []any {
	if s == nil {
		return nil
	}
	return []any{s.Import, s.Export, s.Render, s.RoundTrip, s.Snapshot, s.Sync}
}
