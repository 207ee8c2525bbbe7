package bootstrap

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
)

func TestBuildModuleEnablesMarkdown(t *testing.T) {
	module, err := BuildModule(context.Background(), Options{
		FS: fstest.MapFS{"a.md": {Data: []byte("text\n")}},
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	defer module.Close()

	if module.Markdown() == nil || module.Snapshots() == nil {
		t.Fatal("expected markdown and snapshot services")
	}
	if module.Config().Markdown.ContentDir != "." {
		t.Fatalf("expected current directory default, got %q", module.Config().Markdown.ContentDir)
	}
}

func TestBuildModuleRejectsBunWithoutDSN(t *testing.T) {
	_, err := BuildModule(context.Background(), Options{
		FS:      fstest.MapFS{},
		Storage: "bun",
	})
	if err == nil {
		t.Fatal("expected missing dsn error")
	}
}

func TestParseUUID(t *testing.T) {
	if id, err := ParseUUID("  "); err != nil || id != uuid.Nil {
		t.Fatalf("expected nil uuid, got %s, %v", id, err)
	}
	want := uuid.New()
	if id, err := ParseUUID(want.String()); err != nil || id != want {
		t.Fatalf("expected %s, got %s, %v", want, id, err)
	}
	if _, err := ParseUUID("nope"); err == nil {
		t.Fatal("expected parse error")
	}
}
