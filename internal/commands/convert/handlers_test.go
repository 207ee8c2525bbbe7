package convertcmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/commands/fixtures"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/markdown"
	"github.com/goliatone/go-mdtree/internal/snapshots"
	"github.com/google/uuid"
)

func newDeps(t *testing.T) Dependencies {
	t.Helper()
	files := fstest.MapFS{
		"docs/a.md":    {Data: []byte("# Title\n\nSome *text*.\n")},
		"docs/list.md": {Data: []byte("* item\n")},
	}
	md, err := markdown.NewService(markdown.Config{FS: files}, nil)
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	store := snapshots.NewService(snapshots.NewMemoryRepository(), md, conversion.New(nil, conversion.Options{}))
	return Dependencies{Markdown: md, Snapshots: store}
}

func TestImportHandlerFromText(t *testing.T) {
	var got ResultEnvelope
	h := NewImportHandler(Dependencies{}, nil)

	err := h.Execute(context.Background(), ImportCommand{
		Text:           "A1\nA2\n\nA3",
		Normalize:      true,
		ResultCallback: func(env ResultEnvelope) { got = env },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Tree == nil || len(got.Tree.Children) != 2 {
		t.Fatalf("expected two paragraphs, got %#v", got.Tree)
	}
	p := got.Tree.Children[0].(*document.Paragraph)
	if document.TextContent(p.Children) != "A1A2" {
		t.Fatalf("expected normalized paragraph, got %q", document.TextContent(p.Children))
	}
}

func TestImportHandlerFromFile(t *testing.T) {
	var got ResultEnvelope
	h := NewImportHandler(newDeps(t), nil)

	err := h.Execute(context.Background(), ImportCommand{
		Path:           "docs/a.md",
		ResultCallback: func(env ResultEnvelope) { got = env },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, ok := got.Tree.Children[0].(*document.Heading); !ok {
		t.Fatalf("expected heading, got %#v", got.Tree.Children[0])
	}
	if got.Metadata["path"] != "docs/a.md" {
		t.Fatalf("expected path metadata, got %#v", got.Metadata)
	}
}

func TestImportHandlerMissingFile(t *testing.T) {
	h := NewImportHandler(newDeps(t), nil)
	err := h.Execute(context.Background(), ImportCommand{Path: "docs/missing.md"})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestImportHandlerWithoutMarkdownService(t *testing.T) {
	h := NewImportHandler(Dependencies{}, nil)
	if err := h.Execute(context.Background(), ImportCommand{Path: "docs/a.md"}); err == nil {
		t.Fatal("expected error without markdown service")
	}
}

func TestImportHandlerValidation(t *testing.T) {
	h := NewImportHandler(Dependencies{}, nil)
	err := h.Execute(context.Background(), ImportCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestExportHandlerFromTree(t *testing.T) {
	tree := conversion.New(nil, conversion.Options{}).Import("# Hello world")
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got ResultEnvelope
	h := NewExportHandler(Dependencies{}, nil)
	err = h.Execute(context.Background(), ExportCommand{
		Tree:           data,
		ResultCallback: func(env ResultEnvelope) { got = env },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Markdown != "# Hello world" {
		t.Fatalf("unexpected markdown %q", got.Markdown)
	}
}

func TestExportHandlerRejectsInvalidTree(t *testing.T) {
	h := NewExportHandler(Dependencies{}, nil)
	err := h.Execute(context.Background(), ExportCommand{Tree: []byte(`{"type":"paragraph"}`)})
	if err == nil {
		t.Fatal("expected schema error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestSnapshotAndExportHandlers(t *testing.T) {
	deps := newDeps(t)
	ctx := context.Background()

	var stored ResultEnvelope
	if err := NewSnapshotHandler(deps, nil).Execute(ctx, SnapshotCommand{
		Path:           "docs/a.md",
		ResultCallback: func(env ResultEnvelope) { stored = env },
	}); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if stored.Snapshot == nil || stored.Metadata["created"] != true {
		t.Fatalf("expected created snapshot, got %#v", stored)
	}

	var exported ResultEnvelope
	if err := NewExportHandler(deps, nil).Execute(ctx, ExportCommand{
		SnapshotID:     stored.Snapshot.ID,
		ResultCallback: func(env ResultEnvelope) { exported = env },
	}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if exported.Markdown != "# Title\n\nSome *text*.\n" {
		t.Fatalf("unexpected export %q", exported.Markdown)
	}

	err := NewExportHandler(deps, nil).Execute(ctx, ExportCommand{SnapshotID: uuid.New()})
	if err == nil {
		t.Fatal("expected error for unknown snapshot")
	}
}

func TestSnapshotHandlerWithoutStore(t *testing.T) {
	h := NewSnapshotHandler(Dependencies{}, nil)
	if err := h.Execute(context.Background(), SnapshotCommand{Path: "docs/a.md"}); err == nil {
		t.Fatal("expected error without snapshot store")
	}
}

func TestRenderHandler(t *testing.T) {
	var got ResultEnvelope
	h := NewRenderHandler(newDeps(t), nil)

	err := h.Execute(context.Background(), RenderCommand{
		Markdown:       "~~gone~~ **bold**",
		ResultCallback: func(env ResultEnvelope) { got = env },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	html := string(got.HTML)
	if !strings.Contains(html, "<del>gone</del>") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("unexpected html %q", html)
	}
}

func TestRoundTripHandler(t *testing.T) {
	var got ResultEnvelope
	h := NewRoundTripHandler(newDeps(t), nil)

	err := h.Execute(context.Background(), RoundTripCommand{
		Path:           "docs/list.md",
		ResultCallback: func(env ResultEnvelope) { got = env },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.Report == nil {
		t.Fatal("expected report")
	}
	if got.Report.Stable || !got.Report.TreeStable {
		t.Fatalf("expected tree-stable but text-unstable report, got %+v", got.Report)
	}
	if got.Markdown != "- item" {
		t.Fatalf("unexpected output %q", got.Markdown)
	}
}

func TestRegisterConvertCommands(t *testing.T) {
	reg := fixtures.NewRecordingRegistry()
	set, err := RegisterConvertCommands(reg, newDeps(t), nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(reg.Handlers) != 6 {
		t.Fatalf("expected six handlers, got %d", len(reg.Handlers))
	}
	if reg.Handlers[0] != set.Import || reg.Handlers[4] != set.Snapshot || reg.Handlers[5] != set.Sync {
		t.Fatalf("unexpected registration order %#v", reg.Handlers)
	}

	reg = fixtures.NewRecordingRegistry()
	reg.Err = errors.New("closed")
	if _, err := RegisterConvertCommands(reg, newDeps(t), nil); err == nil {
		t.Fatal("expected registry error")
	}
}
