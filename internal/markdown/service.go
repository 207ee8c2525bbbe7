package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-mdtree/transformers"
)

// Config controls how the Markdown service discovers, converts and renders files.
type Config struct {
	BasePath string
	// FS overrides BasePath when set.
	FS           fs.FS
	Pattern      string
	Recursive    bool
	Parser       interfaces.ParseOptions
	Transformers []transformers.Transformer
	Conversion   conversion.Options
	Logger       interfaces.Logger
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg      Config
	renderer interfaces.MarkdownRenderer
	files    *fileSource
	engine   *conversion.Engine
	logger   interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// NewService constructs a Markdown service. When renderer is nil a goldmark
// renderer with the configured parser options is used.
func NewService(cfg Config, renderer interfaces.MarkdownRenderer) (*Service, error) {
	filesystem := cfg.FS
	if filesystem == nil {
		var err error
		if filesystem, err = prepareFilesystem(cfg.BasePath); err != nil {
			return nil, err
		}
	}
	if renderer == nil {
		renderer = NewGoldmarkRenderer(cfg.Parser)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	convOpts := cfg.Conversion
	if convOpts.Logger == nil {
		convOpts.Logger = logger
	}

	return &Service{
		cfg:      cfg,
		renderer: renderer,
		files:    newFileSource(filesystem, cfg.Pattern, cfg.Recursive),
		engine:   conversion.New(cfg.Transformers, convOpts),
		logger:   logger,
	}, nil
}

// Load reads a single Markdown document and renders its body.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	file, err := s.files.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := s.renderDocument(ctx, file.doc, opts.Parser); err != nil {
		return nil, err
	}
	return file.doc, nil
}

// LoadDirectory reads and renders every Markdown document within dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	files, err := s.files.list(ctx, dir, opts)
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(files))
	for _, file := range files {
		if err := s.renderDocument(ctx, file.doc, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, file.doc)
	}
	return docs, nil
}

// Render converts Markdown bytes into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return s.renderer.RenderWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// Convert loads path, imports its body into a tree and exports the tree again
// with the original front matter in front.
func (s *Service) Convert(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Conversion, error) {
	file, err := s.files.read(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.convert(ctx, file, opts)
}

// ConvertDirectory converts every Markdown document within dir.
func (s *Service) ConvertDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Conversion, error) {
	files, err := s.files.list(ctx, dir, opts)
	if err != nil {
		return nil, err
	}
	out := make([]*interfaces.Conversion, 0, len(files))
	for _, file := range files {
		conv, err := s.convert(ctx, file, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, nil
}

// Export renders tree back to Markdown with header in front.
func (s *Service) Export(tree *document.Root, header []byte) string {
	return AttachFrontMatter(header, s.engine.Export(tree))
}

// Import converts a Markdown body into a tree with the service transformers.
func (s *Service) Import(body string) *document.Root {
	return s.engine.Import(body)
}

func (s *Service) convert(ctx context.Context, file *sourceFile, opts interfaces.LoadOptions) (*interfaces.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := file.doc
	logger := logging.WithConversionContext(s.logger, doc.FilePath, "", "convert")

	body := string(doc.Body)
	tree := s.engine.Import(body)
	exported := s.engine.Export(tree)
	if strings.HasSuffix(body, "\n") && !strings.HasSuffix(exported, "\n") {
		exported += "\n"
	}
	markdown := AttachFrontMatter(doc.Header, exported)

	if err := s.renderDocument(ctx, doc, opts.Parser); err != nil {
		return nil, err
	}

	stable := markdown == string(file.raw)
	logger.Debug("markdown.convert.done", "blocks", len(tree.Children), "stable", stable)
	return &interfaces.Conversion{
		Document: doc,
		Tree:     tree,
		Markdown: markdown,
		Stable:   stable,
	}, nil
}

func (s *Service) renderDocument(ctx context.Context, doc *interfaces.Document, overrides interfaces.ParseOptions) error {
	if doc == nil {
		return errors.New("markdown service: document is nil")
	}
	html, err := s.Render(ctx, doc.Body, overrides)
	if err != nil {
		return fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return nil
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
