package convertcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/markdown"
	"github.com/goliatone/go-mdtree/internal/snapshots"
	"github.com/google/uuid"
)

const (
	importMessageType    = "mdtree.convert.import"
	exportMessageType    = "mdtree.convert.export"
	renderMessageType    = "mdtree.convert.render"
	roundTripMessageType = "mdtree.convert.roundtrip"
	snapshotMessageType  = "mdtree.convert.snapshot"
)

// ResultCallback receives the outcome of a command. It is optional and runs
// synchronously inside the handler.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope carries whatever a command produced. Unused fields stay zero.
type ResultEnvelope struct {
	Tree     *document.Root
	Markdown string
	HTML     []byte
	Report   *conversion.Report
	Snapshot *snapshots.Snapshot
	Metadata map[string]any
}

// ImportCommand converts Markdown into a document tree. The source is either
// a file under the service base path or inline text.
type ImportCommand struct {
	Path             string         `json:"path,omitempty"`
	Text             string         `json:"text,omitempty"`
	PreserveNewlines bool           `json:"preserve_newlines,omitempty"`
	Normalize        bool           `json:"normalize,omitempty"`
	ResultCallback   ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ImportCommand) Type() string { return importMessageType }

// Validate requires exactly one source.
func (m ImportCommand) Validate() error {
	return validateSource(importMessageType, m.Path, m.Text)
}

// ExportCommand renders a tree back to Markdown. The tree comes from its JSON
// form or from a stored snapshot.
type ExportCommand struct {
	Tree             []byte         `json:"tree,omitempty"`
	SnapshotID       uuid.UUID      `json:"snapshot_id,omitempty"`
	PreserveNewlines bool           `json:"preserve_newlines,omitempty"`
	ResultCallback   ResultCallback `json:"-"`
}

// Type implements command.Message.
func (ExportCommand) Type() string { return exportMessageType }

// Validate requires either a tree or a snapshot id, not both.
func (m ExportCommand) Validate() error {
	hasTree := len(strings.TrimSpace(string(m.Tree))) > 0
	hasSnapshot := m.SnapshotID != uuid.Nil
	errs := validation.Errors{}
	switch {
	case !hasTree && !hasSnapshot:
		errs["tree"] = validation.NewError(exportMessageType+".source_required", "tree or snapshot_id is required")
	case hasTree && hasSnapshot:
		errs["snapshot_id"] = validation.NewError(exportMessageType+".source_ambiguous", "tree and snapshot_id are mutually exclusive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RenderCommand renders Markdown to HTML with goldmark.
type RenderCommand struct {
	Path           string         `json:"path,omitempty"`
	Markdown       string         `json:"markdown,omitempty"`
	Extensions     []string       `json:"extensions,omitempty"`
	HardWraps      bool           `json:"hard_wraps,omitempty"`
	SafeMode       bool           `json:"safe_mode,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (RenderCommand) Type() string { return renderMessageType }

// Validate requires one source and known extension names.
func (m RenderCommand) Validate() error {
	if err := validateSource(renderMessageType, m.Path, m.Markdown); err != nil {
		return err
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Extensions, validation.Each(validation.By(func(value any) error {
			name, _ := value.(string)
			if !markdown.IsSupportedExtension(name) {
				return validation.NewError(renderMessageType+".extension_unknown", "unknown extension "+strings.TrimSpace(name))
			}
			return nil
		}))),
	)
}

// RoundTripCommand imports and exports Markdown and reports whether the text
// and the tree survived.
type RoundTripCommand struct {
	Path             string         `json:"path,omitempty"`
	Text             string         `json:"text,omitempty"`
	PreserveNewlines bool           `json:"preserve_newlines,omitempty"`
	ResultCallback   ResultCallback `json:"-"`
}

// Type implements command.Message.
func (RoundTripCommand) Type() string { return roundTripMessageType }

// Validate requires exactly one source.
func (m RoundTripCommand) Validate() error {
	return validateSource(roundTripMessageType, m.Path, m.Text)
}

// SnapshotCommand converts a file and stores the result.
type SnapshotCommand struct {
	Path           string         `json:"path"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SnapshotCommand) Type() string { return snapshotMessageType }

// Validate requires a path.
func (m SnapshotCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Path, validation.Required.ErrorObject(
			validation.NewError(snapshotMessageType+".path_required", "path is required"),
		)),
	)
}

func validateSource(messageType, path, text string) error {
	hasPath := strings.TrimSpace(path) != ""
	errs := validation.Errors{}
	switch {
	case !hasPath && text == "":
		errs["path"] = validation.NewError(messageType+".source_required", "path or text is required")
	case hasPath && text != "":
		errs["text"] = validation.NewError(messageType+".source_ambiguous", "path and text are mutually exclusive")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
