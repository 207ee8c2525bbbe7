package convertcmd

import (
	"testing"

	"github.com/google/uuid"
)

func TestImportCommandValidateSource(t *testing.T) {
	cases := []struct {
		name    string
		cmd     ImportCommand
		wantErr bool
	}{
		{name: "missing", cmd: ImportCommand{}, wantErr: true},
		{name: "blank path", cmd: ImportCommand{Path: "  "}, wantErr: true},
		{name: "path", cmd: ImportCommand{Path: "docs/a.md"}},
		{name: "text", cmd: ImportCommand{Text: "# a"}},
		{name: "both", cmd: ImportCommand{Path: "docs/a.md", Text: "# a"}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExportCommandValidateSource(t *testing.T) {
	if err := (ExportCommand{}).Validate(); err == nil {
		t.Fatal("expected error without tree or snapshot")
	}
	if err := (ExportCommand{Tree: []byte(`{"type":"root"}`), SnapshotID: uuid.New()}).Validate(); err == nil {
		t.Fatal("expected error with both tree and snapshot")
	}
	if err := (ExportCommand{SnapshotID: uuid.New()}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRenderCommandValidateExtensions(t *testing.T) {
	cmd := RenderCommand{Markdown: "# a", Extensions: []string{"table", "mermaid"}}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected unknown extension error")
	}
	cmd.Extensions = []string{"table", "footnote"}
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSnapshotCommandValidateRequiresPath(t *testing.T) {
	if err := (SnapshotCommand{}).Validate(); err == nil {
		t.Fatal("expected error when path missing")
	}
	if err := (SnapshotCommand{Path: "docs/a.md"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
