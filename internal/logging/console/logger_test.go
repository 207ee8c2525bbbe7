package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/logging/console"
)

func TestConsoleLoggerWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("mdtree.snapshots")
	logger = logging.WithFields(logger, map[string]any{"module": "mdtree.snapshots"})
	ctx := logging.ContextWithFields(context.Background(), map[string]any{
		"correlation_id": "req-1234",
	})
	logger = logger.WithContext(ctx)

	snapshotID := uuid.MustParse("8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999")
	logger.Info("snapshots.convert.created",
		"snapshot_id", snapshotID,
		"source_path", "docs/getting started.md",
		"stable", true,
	)

	got := strings.TrimSpace(buf.String())
	want := `2024-03-14T15:09:26.535897Z INFO snapshots.convert.created correlation_id=req-1234 logger=mdtree.snapshots module=mdtree.snapshots snapshot_id=8a51a9b1-2d30-4b2c-8ecd-2c0b87dfa999 source_path="docs/getting started.md" stable=true`
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: time.Now,
		MinLevel: &minLevel,
	})

	logger := provider.GetLogger("mdtree.import")
	logger.Debug("import.element.declined", "transformer", "heading")
	logger.Info("import.done", "blocks", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "import.done blocks=3") {
		t.Fatalf("expected info entry, got %s", lines[0])
	}
}

func TestConsoleLoggerPositionalArgs(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) },
	})

	provider.GetLogger("mdtree").Warn("export.fallback", 42, "x", "dangling")

	got := strings.TrimSpace(buf.String())
	want := "2024-01-01T00:00:00Z WARN export.fallback field_0=x field_1=dangling logger=mdtree"
	if got != want {
		t.Fatalf("unexpected entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		"":        console.LevelInfo,
		"warning": console.LevelWarn,
		" error ": console.LevelError,
	}
	for name, want := range cases {
		got, err := console.ParseLevel(name)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := console.ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
