package mdtree_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-mdtree"
	"github.com/goliatone/go-mdtree/transformers"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := mdtree.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestConfigValidateStorageDSNRequired(t *testing.T) {
	cfg := mdtree.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = ""

	if err := cfg.Validate(); !errors.Is(err, mdtree.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestTransformersForExtended(t *testing.T) {
	set := transformers.Group(mdtree.TransformersFor(mdtree.ConversionConfig{Extended: true}))
	if set.Elements[0] != transformers.HorizontalRule {
		t.Fatal("expected extended set to lead with horizontal rules")
	}
	set = transformers.Group(mdtree.TransformersFor(mdtree.ConversionConfig{}))
	for _, el := range set.Elements {
		if el == transformers.CheckList {
			t.Fatal("check lists are opt-in")
		}
	}
}

func TestOptionsForPreserveNewlines(t *testing.T) {
	opts := mdtree.OptionsFor(mdtree.ConversionConfig{PreserveNewlines: true})
	root := mdtree.Import("a\n\nb", nil, opts...)
	if len(root.Children) != 3 {
		t.Fatalf("expected blank line kept as a paragraph, got %d blocks", len(root.Children))
	}
}
