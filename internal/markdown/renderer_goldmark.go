package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// extensions maps configuration names to goldmark extensions. Aliases share
// an entry.
var extensions = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// defaultExtensions are used when ParseOptions names none.
var defaultExtensions = []string{"gfm", "tasklist"}

// IsSupportedExtension reports whether name selects a goldmark extension.
func IsSupportedExtension(name string) bool {
	_, ok := extensions[extensionKey(name)]
	return ok
}

func extensionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// extensionNames resolves names to the sorted, de-duplicated list of known
// extension keys. Unknown names are ignored.
func extensionNames(names []string) []string {
	if len(names) == 0 {
		names = defaultExtensions
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if key := extensionKey(name); extensions[key] != nil {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// GoldmarkRenderer renders Markdown to HTML with goldmark. Engines are built
// once per distinct option set and shared between calls.
type GoldmarkRenderer struct {
	defaults interfaces.ParseOptions
	engines  sync.Map
}

var _ interfaces.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer returns a renderer that uses defaults for Render.
func NewGoldmarkRenderer(defaults interfaces.ParseOptions) *GoldmarkRenderer {
	return &GoldmarkRenderer{defaults: defaults}
}

func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	return r.RenderWithOptions(markdown, r.defaults)
}

func (r *GoldmarkRenderer) RenderWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := r.engine(opts).Convert(markdown, &out); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return out.Bytes(), nil
}

func (r *GoldmarkRenderer) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	names := extensionNames(opts.Extensions)
	key := fmt.Sprintf("%s|wrap=%t|safe=%t", strings.Join(names, ","), opts.HardWraps, opts.SafeMode)
	if cached, ok := r.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}

	exts := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		exts = append(exts, extensions[name])
	}
	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	engine := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	actual, _ := r.engines.LoadOrStore(key, engine)
	return actual.(goldmark.Markdown)
}
