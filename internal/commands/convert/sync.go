package convertcmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-mdtree/internal/commands"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

const syncMessageType = "mdtree.convert.sync"

// SyncCommand snapshots every Markdown file below Directory.
type SyncCommand struct {
	Directory      string         `json:"directory"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SyncCommand) Type() string { return syncMessageType }

// Validate requires a directory.
func (m SyncCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Directory, validation.Required.ErrorObject(
			validation.NewError(syncMessageType+".directory_required", "directory is required"),
		)),
	)
}

// SyncHandlerOption customises the sync handler.
type SyncHandlerOption func(*SyncHandler)

// SyncWithCronExpression overrides the schedule used by cron registrars.
func SyncWithCronExpression(expression string) SyncHandlerOption {
	return func(h *SyncHandler) {
		if trimmed := strings.TrimSpace(expression); trimmed != "" {
			h.cronConfig.Expression = trimmed
		}
	}
}

// SyncWithDirectory sets the directory synced by the cron handler.
func SyncWithDirectory(dir string) SyncHandlerOption {
	return func(h *SyncHandler) {
		if trimmed := strings.TrimSpace(dir); trimmed != "" {
			h.directory = trimmed
		}
	}
}

// SyncHandler keeps the snapshot store in step with a content directory. It
// can run on a schedule through command.CronCommand.
type SyncHandler struct {
	inner      *commands.Handler[SyncCommand]
	cronConfig command.HandlerConfig
	directory  string
}

var _ command.Commander[SyncCommand] = (*SyncHandler)(nil)

// NewSyncHandler creates the sync handler. The cron schedule defaults to hourly.
func NewSyncHandler(deps Dependencies, logger interfaces.Logger, opts ...SyncHandlerOption) *SyncHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg SyncCommand) error {
		if deps.Snapshots == nil {
			return ErrSnapshotsDisabled
		}
		result, err := deps.Snapshots.Sync(ctx, msg.Directory)
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Metadata: map[string]any{
				"operation": "sync",
				"created":   result.Created,
				"updated":   result.Updated,
				"skipped":   result.Skipped,
			},
		})
		return nil
	}

	h := &SyncHandler{
		cronConfig: command.HandlerConfig{Expression: "@hourly"},
		directory:  ".",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.inner = commands.NewHandler(exec,
		commands.WithLogger[SyncCommand](baseLogger),
		commands.WithOperation[SyncCommand]("convert.sync"),
		commands.WithMessageFields(func(msg SyncCommand) map[string]any {
			return map[string]any{"directory": msg.Directory}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncCommand](baseLogger)),
	)
	return h
}

// Execute satisfies command.Commander[SyncCommand].
func (h *SyncHandler) Execute(ctx context.Context, msg SyncCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand.
func (h *SyncHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), SyncCommand{Directory: h.directory})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *SyncHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIHandler exposes the sync handler to CLI integrations.
func (h *SyncHandler) CLIHandler() any {
	return h
}

// CLIOptions describes the CLI metadata for snapshot sync.
func (h *SyncHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"snapshots", "sync"},
		Group:       "snapshots",
		Description: "Snapshot every Markdown file of a directory",
	}
}
