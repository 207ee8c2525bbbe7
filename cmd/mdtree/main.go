package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-mdtree"
	"github.com/goliatone/go-mdtree/cmd/mdtree/internal/bootstrap"
	convertcmd "github.com/goliatone/go-mdtree/internal/commands/convert"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("mdtree: %v", err)
	}
}

type cli struct {
	ContentDir string `name:"content-dir" default:"." help:"Directory Markdown paths are resolved against."`
	Pattern    string `default:"*.md" help:"Glob applied when syncing directories."`
	Extended   bool   `help:"Add check lists and horizontal rules to the transformer set."`
	Storage    string `default:"memory" enum:"memory,bun" help:"Snapshot store (memory or bun)."`
	Driver     string `default:"sqlite" help:"Database driver for the bun store (sqlite or postgres)."`
	DSN        string `name:"dsn" help:"Database DSN for the bun store."`
	Cache      bool   `help:"Cache snapshot reads."`
	Verbose    bool   `short:"v" help:"Write log entries to stderr."`
	LogLevel   string `name:"log-level" default:"info" help:"Minimum log level."`
	LogFormat  string `name:"log-format" help:"Log with go-logger in this format (json, console or pretty)."`

	Import    importCmd    `cmd:"" help:"Convert Markdown into a JSON document tree."`
	Export    exportCmd    `cmd:"" help:"Convert a JSON document tree or a snapshot back into Markdown."`
	Normalize normalizeCmd `cmd:"" help:"Merge soft-wrapped lines."`
	Render    renderCmd    `cmd:"" help:"Render Markdown to HTML."`
	RoundTrip roundTripCmd `cmd:"" name:"roundtrip" help:"Import and export Markdown and report whether it survived."`
	Snapshot  snapshotCmd  `cmd:"" help:"Convert a file and store the snapshot."`
	Sync      syncCmd      `cmd:"" help:"Snapshot every Markdown file of a directory."`
}

// app is bound into every command's Run method.
type app struct {
	ctx    context.Context
	module *mdtree.Module
	stdin  io.Reader
	stdout io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("mdtree"),
		kong.Description("Convert between Markdown and document trees."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(ctx, bootstrap.Options{
		ContentDir: c.ContentDir,
		Pattern:    c.Pattern,
		Extended:   c.Extended,
		Storage:    c.Storage,
		Driver:     c.Driver,
		DSN:        c.DSN,
		Cache:      c.Cache,
		LogLevel:   c.LogLevel,
		LogFormat:  c.LogFormat,
		Verbose:    c.Verbose,
		LogWriter:  stderr,
	})
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	return kctx.Run(&app{ctx: ctx, module: module, stdin: stdin, stdout: stdout})
}

// source returns the inline text to convert. With neither a path nor text
// the input is read from stdin; a path of "-" does the same.
func (a *app) source(path, text string) (string, string, error) {
	if text != "" || (path != "" && path != "-") {
		return path, text, nil
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return "", string(data), nil
}

func (a *app) writeJSON(value any, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(value)
	} else {
		data, err = json.MarshalIndent(value, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, string(data))
	return err
}

func (a *app) writeText(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(a.stdout, text)
	return err
}

type importCmd struct {
	Path             string `arg:"" optional:"" help:"Markdown file below the content directory. Reads stdin when omitted."`
	Text             string `help:"Inline Markdown instead of a file."`
	PreserveNewlines bool   `name:"preserve-newlines" help:"Keep blank lines as empty paragraphs."`
	Normalize        bool   `help:"Merge soft-wrapped lines first."`
	Compact          bool   `help:"Print the tree on one line."`
}

func (c *importCmd) Run(a *app) error {
	path, text, err := a.source(c.Path, c.Text)
	if err != nil {
		return err
	}
	var out convertcmd.ResultEnvelope
	err = a.module.Commands().Import.Execute(a.ctx, convertcmd.ImportCommand{
		Path:             path,
		Text:             text,
		PreserveNewlines: c.PreserveNewlines,
		Normalize:        c.Normalize,
		ResultCallback:   func(env convertcmd.ResultEnvelope) { out = env },
	})
	if err != nil {
		return err
	}
	return a.writeJSON(out.Tree, c.Compact)
}

type exportCmd struct {
	File             string `arg:"" optional:"" help:"JSON tree file. Reads stdin when omitted."`
	Snapshot         string `help:"Export a stored snapshot instead of a tree."`
	PreserveNewlines bool   `name:"preserve-newlines" help:"Separate blocks with single newlines."`
}

func (c *exportCmd) Run(a *app) error {
	id, err := bootstrap.ParseUUID(c.Snapshot)
	if err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}
	msg := convertcmd.ExportCommand{SnapshotID: id, PreserveNewlines: c.PreserveNewlines}
	if c.Snapshot == "" {
		if msg.Tree, err = a.readTree(c.File); err != nil {
			return err
		}
	}
	var out convertcmd.ResultEnvelope
	msg.ResultCallback = func(env convertcmd.ResultEnvelope) { out = env }
	if err := a.module.Commands().Export.Execute(a.ctx, msg); err != nil {
		return err
	}
	return a.writeText(out.Markdown)
}

func (a *app) readTree(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(file)
}

type normalizeCmd struct {
	Path string `arg:"" optional:"" help:"Markdown file below the content directory. Reads stdin when omitted."`
}

func (c *normalizeCmd) Run(a *app) error {
	path, text, err := a.source(c.Path, "")
	if err != nil {
		return err
	}
	if path != "" {
		if a.module.Markdown() == nil {
			return convertcmd.ErrMarkdownServiceMissing
		}
		doc, err := a.module.Markdown().Load(a.ctx, path, mdtree.LoadOptions{})
		if err != nil {
			return err
		}
		text = string(doc.Body)
	}
	return a.writeText(a.module.Engine().Normalize(text))
}

type renderCmd struct {
	Path       string   `arg:"" optional:"" help:"Markdown file below the content directory. Reads stdin when omitted."`
	Text       string   `help:"Inline Markdown instead of a file."`
	Extensions []string `name:"ext" sep:"," help:"Goldmark extensions to enable."`
	HardWraps  bool     `name:"hard-wraps" help:"Render soft line breaks as <br>."`
	SafeMode   bool     `name:"safe" help:"Drop raw HTML."`
}

func (c *renderCmd) Run(a *app) error {
	path, text, err := a.source(c.Path, c.Text)
	if err != nil {
		return err
	}
	var out convertcmd.ResultEnvelope
	err = a.module.Commands().Render.Execute(a.ctx, convertcmd.RenderCommand{
		Path:           path,
		Markdown:       text,
		Extensions:     c.Extensions,
		HardWraps:      c.HardWraps,
		SafeMode:       c.SafeMode,
		ResultCallback: func(env convertcmd.ResultEnvelope) { out = env },
	})
	if err != nil {
		return err
	}
	return a.writeText(string(out.HTML))
}

type roundTripCmd struct {
	Path             string `arg:"" optional:"" help:"Markdown file below the content directory. Reads stdin when omitted."`
	Text             string `help:"Inline Markdown instead of a file."`
	PreserveNewlines bool   `name:"preserve-newlines" help:"Keep blank lines as empty paragraphs."`
	Output           bool   `help:"Print the exported Markdown after the summary."`
}

func (c *roundTripCmd) Run(a *app) error {
	path, text, err := a.source(c.Path, c.Text)
	if err != nil {
		return err
	}
	var out convertcmd.ResultEnvelope
	err = a.module.Commands().RoundTrip.Execute(a.ctx, convertcmd.RoundTripCommand{
		Path:             path,
		Text:             text,
		PreserveNewlines: c.PreserveNewlines,
		ResultCallback:   func(env convertcmd.ResultEnvelope) { out = env },
	})
	if err != nil {
		return err
	}
	report := out.Report
	if _, err := fmt.Fprintf(a.stdout, "stable=%t tree_stable=%t\n", report.Stable, report.TreeStable); err != nil {
		return err
	}
	if !c.Output {
		return nil
	}
	return a.writeText(report.Output)
}

type snapshotCmd struct {
	Path string `arg:"" help:"Markdown file below the content directory."`
}

func (c *snapshotCmd) Run(a *app) error {
	var out convertcmd.ResultEnvelope
	err := a.module.Commands().Snapshot.Execute(a.ctx, convertcmd.SnapshotCommand{
		Path:           c.Path,
		ResultCallback: func(env convertcmd.ResultEnvelope) { out = env },
	})
	if err != nil {
		return err
	}
	state := "updated"
	switch {
	case out.Metadata["skipped"] == true:
		state = "skipped"
	case out.Metadata["created"] == true:
		state = "created"
	}
	snap := out.Snapshot
	_, err = fmt.Fprintf(a.stdout, "%s %s %s stable=%t\n", snap.ID, snap.Slug, state, snap.Stable)
	return err
}

type syncCmd struct {
	Directory string `arg:"" optional:"" default:"." help:"Directory below the content directory."`
}

func (c *syncCmd) Run(a *app) error {
	var out convertcmd.ResultEnvelope
	err := a.module.Commands().Sync.Execute(a.ctx, convertcmd.SyncCommand{
		Directory:      c.Directory,
		ResultCallback: func(env convertcmd.ResultEnvelope) { out = env },
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "created=%v updated=%v skipped=%v\n",
		out.Metadata["created"], out.Metadata["updated"], out.Metadata["skipped"])
	return err
}
