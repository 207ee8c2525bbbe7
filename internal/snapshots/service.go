package snapshots

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-mdtree/document"
	"github.com/goliatone/go-mdtree/internal/conversion"
	"github.com/goliatone/go-mdtree/internal/identity"
	"github.com/goliatone/go-mdtree/internal/logging"
	"github.com/goliatone/go-mdtree/internal/markdown"
	"github.com/goliatone/go-mdtree/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Source converts Markdown files into trees. *markdown.Service satisfies it.
type Source interface {
	Convert(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Conversion, error)
	LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error)
}

// Result is the outcome of Service.Convert.
type Result struct {
	Snapshot *Snapshot
	Created  bool
	// Skipped is set when the stored checksum matched the file.
	Skipped bool
}

// Service stores conversion snapshots and exports them again.
type Service struct {
	repo   Repository
	source Source
	engine *conversion.Engine
	now    func() time.Time
	logger interfaces.Logger
}

// Option configures the service.
type Option func(*Service)

// WithNow overrides the clock used for timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a snapshot service. engine exports stored trees and must
// use the transformers the source imported them with.
func NewService(repo Repository, source Source, engine *conversion.Engine, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		source: source,
		engine: engine,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert converts the file at sourcePath and stores the result. A file whose
// checksum matches the stored snapshot is not written again.
func (s *Service) Convert(ctx context.Context, sourcePath string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conv, err := s.source.Convert(ctx, sourcePath, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	doc := conv.Document
	id := identity.SnapshotUUID(doc.FilePath)
	logger := logging.WithConversionContext(s.logger, doc.FilePath, id.String(), "snapshot.convert")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return nil, err
	}
	checksum := hex.EncodeToString(doc.Checksum)
	if existing != nil && existing.Checksum == checksum {
		logger.Debug("snapshots.convert.skipped")
		return &Result{Snapshot: existing, Skipped: true}, nil
	}

	tree, err := json.Marshal(conv.Tree)
	if err != nil {
		return nil, fmt.Errorf("snapshots: encode tree: %w", err)
	}
	now := s.now()
	record := &Snapshot{
		ID:         id,
		Slug:       slugFor(doc, conv.Tree),
		SourcePath: doc.FilePath,
		Header:     string(doc.Header),
		Markdown:   conv.Markdown,
		Tree:       string(tree),
		Checksum:   checksum,
		Stable:     conv.Stable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if existing == nil {
		stored, err := s.repo.Create(ctx, record)
		if err != nil {
			return nil, err
		}
		logger.Info("snapshots.convert.created", "slug", stored.Slug, "stable", stored.Stable)
		return &Result{Snapshot: stored, Created: true}, nil
	}

	record.CreatedAt = existing.CreatedAt
	stored, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	logger.Info("snapshots.convert.updated", "slug", stored.Slug, "stable", stored.Stable)
	return &Result{Snapshot: stored}, nil
}

// SyncResult counts the outcome of Service.Sync.
type SyncResult struct {
	Created int
	Updated int
	Skipped int
}

// Sync converts every Markdown file below dir. It stops at the first file
// that fails and returns the counts gathered so far.
func (s *Service) Sync(ctx context.Context, dir string) (*SyncResult, error) {
	docs, err := s.source.LoadDirectory(ctx, dir, interfaces.LoadOptions{})
	if err != nil {
		return nil, err
	}
	result := &SyncResult{}
	for _, doc := range docs {
		res, err := s.Convert(ctx, doc.FilePath)
		if err != nil {
			return result, fmt.Errorf("snapshots: sync %s: %w", doc.FilePath, err)
		}
		switch {
		case res.Skipped:
			result.Skipped++
		case res.Created:
			result.Created++
		default:
			result.Updated++
		}
	}
	logging.WithConversionContext(s.logger, dir, "", "snapshot.sync").
		Info("snapshots.sync.completed", "created", result.Created, "updated", result.Updated, "skipped", result.Skipped)
	return result, nil
}

// Get returns the stored snapshot.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every stored snapshot.
func (s *Service) List(ctx context.Context) ([]*Snapshot, error) {
	return s.repo.List(ctx)
}

// Tree decodes the stored tree of a snapshot.
func (s *Service) Tree(ctx context.Context, id uuid.UUID) (*document.Root, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return decodeTree(record)
}

// Export renders the stored tree of a snapshot back to Markdown with its
// front matter in front.
func (s *Service) Export(ctx context.Context, id uuid.UUID) (string, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	root, err := decodeTree(record)
	if err != nil {
		return "", err
	}
	out := s.engine.Export(root)
	if strings.HasSuffix(record.Markdown, "\n") && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	s.logger.Debug("snapshots.export.done", "snapshot_id", id.String(), "blocks", len(root.Children))
	return markdown.AttachFrontMatter([]byte(record.Header), out), nil
}

// Delete removes a stored snapshot.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func decodeTree(record *Snapshot) (*document.Root, error) {
	root, err := document.Decode([]byte(record.Tree))
	if err != nil {
		return nil, fmt.Errorf("snapshots: decode tree of %s: %w", record.SourcePath, err)
	}
	return root, nil
}

// slugFor prefers the front matter slug, then the front matter title, then
// the first heading, then the file name.
func slugFor(doc *interfaces.Document, tree *document.Root) string {
	candidates := []string{doc.FrontMatter.Slug, doc.FrontMatter.Title, firstHeading(tree)}
	base := path.Base(strings.ReplaceAll(doc.FilePath, "\\", "/"))
	candidates = append(candidates, strings.TrimSuffix(base, path.Ext(base)))
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return normalized
		}
	}
	return identity.SnapshotUUID(doc.FilePath).String()
}

func firstHeading(tree *document.Root) string {
	if tree == nil {
		return ""
	}
	for _, block := range tree.Children {
		if h, ok := block.(*document.Heading); ok {
			return document.TextContent(h.Children)
		}
	}
	return ""
}
