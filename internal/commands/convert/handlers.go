package convertcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/commands"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/snapshots"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

var (
	// ErrMarkdownServiceMissing is returned when a command reads a file
	// without a Markdown service.
	ErrMarkdownServiceMissing = errors.New("convert command: markdown service is not configured")
	// ErrSnapshotsDisabled is returned when a command needs the snapshot store
	// and none is configured.
	ErrSnapshotsDisabled = errors.New("convert command: snapshots are not configured")
)

var (
	_ command.Commander[ImportCommand]    = (*ImportHandler)(nil)
	_ command.Commander[ExportCommand]    = (*ExportHandler)(nil)
	_ command.Commander[RenderCommand]    = (*RenderHandler)(nil)
	_ command.Commander[RoundTripCommand] = (*RoundTripHandler)(nil)
	_ command.Commander[SnapshotCommand]  = (*SnapshotHandler)(nil)
)

// Dependencies are the services conversion commands run against. Markdown
// and Snapshots are optional; commands that need a missing one fail.
type Dependencies struct {
	Transformers []transformers.Transformer
	Markdown     interfaces.MarkdownService
	Snapshots    *snapshots.Service
}

func (d Dependencies) engine(preserve, normalize bool, logger interfaces.Logger) *conversion.Engine {
	return conversion.New(d.Transformers, conversion.Options{
		PreserveNewlines: preserve,
		Normalize:        normalize,
		Logger:           logger,
	})
}

// source returns the Markdown body of path, or text when path is empty.
func (d Dependencies) source(ctx context.Context, path, text string) (string, *interfaces.Document, error) {
	if path == "" {
		return text, nil, nil
	}
	if d.Markdown == nil {
		return "", nil, ErrMarkdownServiceMissing
	}
	doc, err := d.Markdown.Load(ctx, path, interfaces.LoadOptions{})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, commands.NotFound(err, fmt.Sprintf("markdown file %s not found", path))
		}
		return "", nil, err
	}
	return string(doc.Body), doc, nil
}

// ImportHandler converts Markdown into a document tree.
type ImportHandler struct {
	inner *commands.Handler[ImportCommand]
}

// NewImportHandler creates the import handler.
func NewImportHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[ImportCommand]) *ImportHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ImportCommand) error {
		text, doc, err := deps.source(ctx, msg.Path, msg.Text)
		if err != nil {
			return err
		}
		tree := deps.engine(msg.PreserveNewlines, msg.Normalize, baseLogger).Import(text)
		metadata := map[string]any{"operation": "import", "blocks": len(tree.Children)}
		if doc != nil {
			metadata["path"] = doc.FilePath
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{Tree: tree, Metadata: metadata})
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportCommand]{
		commands.WithLogger[ImportCommand](baseLogger),
		commands.WithOperation[ImportCommand]("convert.import"),
		commands.WithMessageFields(func(msg ImportCommand) map[string]any {
			return sourceFields(msg.Path, msg.Text, msg.PreserveNewlines, msg.Normalize)
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportCommand](baseLogger)),
	}
	return &ImportHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ImportCommand].
func (h *ImportHandler) Execute(ctx context.Context, msg ImportCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ExportHandler renders a tree back to Markdown.
type ExportHandler struct {
	inner *commands.Handler[ExportCommand]
}

// NewExportHandler creates the export handler.
func NewExportHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[ExportCommand]) *ExportHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg ExportCommand) error {
		if len(msg.Tree) == 0 {
			return exportSnapshot(ctx, deps, msg)
		}
		tree, err := document.Decode(msg.Tree)
		if err != nil {
			return err
		}
		out := deps.engine(msg.PreserveNewlines, false, baseLogger).Export(tree)
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Tree:     tree,
			Markdown: out,
			Metadata: map[string]any{"operation": "export"},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[ExportCommand]{
		commands.WithLogger[ExportCommand](baseLogger),
		commands.WithOperation[ExportCommand]("convert.export"),
		commands.WithMessageFields(func(msg ExportCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Tree) > 0 {
				fields["tree_bytes"] = len(msg.Tree)
			} else {
				fields["snapshot_id"] = msg.SnapshotID.String()
			}
			if msg.PreserveNewlines {
				fields["preserve_newlines"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ExportCommand](baseLogger)),
	}
	return &ExportHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

func exportSnapshot(ctx context.Context, deps Dependencies, msg ExportCommand) error {
	if deps.Snapshots == nil {
		return ErrSnapshotsDisabled
	}
	out, err := deps.Snapshots.Export(ctx, msg.SnapshotID)
	if err != nil {
		if errors.Is(err, snapshots.ErrSnapshotNotFound) {
			return commands.NotFound(err, "snapshot not found")
		}
		return err
	}
	invokeCallback(msg.ResultCallback, ResultEnvelope{
		Markdown: out,
		Metadata: map[string]any{"operation": "export", "snapshot_id": msg.SnapshotID.String()},
	})
	return nil
}

// Execute satisfies command.Commander[ExportCommand].
func (h *ExportHandler) Execute(ctx context.Context, msg ExportCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderHandler renders Markdown to HTML.
type RenderHandler struct {
	inner *commands.Handler[RenderCommand]
}

// NewRenderHandler creates the render handler. Rendering always needs the
// Markdown service.
func NewRenderHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[RenderCommand]) *RenderHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg RenderCommand) error {
		if deps.Markdown == nil {
			return ErrMarkdownServiceMissing
		}
		text, _, err := deps.source(ctx, msg.Path, msg.Markdown)
		if err != nil {
			return err
		}
		html, err := deps.Markdown.Render(ctx, []byte(text), interfaces.ParseOptions{
			Extensions: msg.Extensions,
			HardWraps:  msg.HardWraps,
			SafeMode:   msg.SafeMode,
		})
		if err != nil {
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Markdown: text,
			HTML:     html,
			Metadata: map[string]any{"operation": "render"},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderCommand]{
		commands.WithLogger[RenderCommand](baseLogger),
		commands.WithOperation[RenderCommand]("convert.render"),
		commands.WithMessageFields(func(msg RenderCommand) map[string]any {
			fields := sourceFields(msg.Path, msg.Markdown, false, false)
			if len(msg.Extensions) > 0 {
				fields["extensions"] = len(msg.Extensions)
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderCommand](baseLogger)),
	}
	return &RenderHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[RenderCommand].
func (h *RenderHandler) Execute(ctx context.Context, msg RenderCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RoundTripHandler imports and exports Markdown and reports stability.
type RoundTripHandler struct {
	inner *commands.Handler[RoundTripCommand]
}

// NewRoundTripHandler creates the round-trip handler.
func NewRoundTripHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[RoundTripCommand]) *RoundTripHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg RoundTripCommand) error {
		text, _, err := deps.source(ctx, msg.Path, msg.Text)
		if err != nil {
			return err
		}
		report := deps.engine(msg.PreserveNewlines, false, baseLogger).RoundTrip(text)
		logging.WithFields(baseLogger, map[string]any{
			"stable":      report.Stable,
			"tree_stable": report.TreeStable,
		}).Info("convert.command.roundtrip.completed")
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Markdown: report.Output,
			Report:   &report,
			Metadata: map[string]any{"operation": "roundtrip"},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[RoundTripCommand]{
		commands.WithLogger[RoundTripCommand](baseLogger),
		commands.WithOperation[RoundTripCommand]("convert.roundtrip"),
		commands.WithMessageFields(func(msg RoundTripCommand) map[string]any {
			return sourceFields(msg.Path, msg.Text, msg.PreserveNewlines, false)
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RoundTripCommand](baseLogger)),
	}
	return &RoundTripHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[RoundTripCommand].
func (h *RoundTripHandler) Execute(ctx context.Context, msg RoundTripCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SnapshotHandler converts a file and stores the result.
type SnapshotHandler struct {
	inner *commands.Handler[SnapshotCommand]
}

// NewSnapshotHandler creates the snapshot handler.
func NewSnapshotHandler(deps Dependencies, logger interfaces.Logger, opts ...commands.HandlerOption[SnapshotCommand]) *SnapshotHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg SnapshotCommand) error {
		if deps.Snapshots == nil {
			return ErrSnapshotsDisabled
		}
		result, err := deps.Snapshots.Convert(ctx, msg.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return commands.NotFound(err, fmt.Sprintf("markdown file %s not found", msg.Path))
			}
			return err
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Markdown: result.Snapshot.Markdown,
			Snapshot: result.Snapshot,
			Metadata: map[string]any{
				"operation": "snapshot",
				"created":   result.Created,
				"skipped":   result.Skipped,
			},
		})
		return nil
	}

	handlerOpts := []commands.HandlerOption[SnapshotCommand]{
		commands.WithLogger[SnapshotCommand](baseLogger),
		commands.WithOperation[SnapshotCommand]("convert.snapshot"),
		commands.WithMessageFields(func(msg SnapshotCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SnapshotCommand](baseLogger)),
	}
	return &SnapshotHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SnapshotCommand].
func (h *SnapshotHandler) Execute(ctx context.Context, msg SnapshotCommand) error {
	return h.inner.Execute(ctx, msg)
}

func sourceFields(path, text string, preserve, normalize bool) map[string]any {
	fields := map[string]any{}
	if path != "" {
		fields["path"] = path
	} else {
		fields["text_bytes"] = len(text)
	}
	if preserve {
		fields["preserve_newlines"] = true
	}
	if normalize {
		fields["normalize"] = true
	}
	return fields
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
