package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

const defaultPattern = "*.md"

// sourceFile is a loaded Markdown file together with the bytes it was read
// from, which the stability check compares against.
type sourceFile struct {
	doc *interfaces.Document
	raw []byte
}

// fileSource discovers and reads Markdown files from an fs.FS.
type fileSource struct {
	fsys      fs.FS
	pattern   string
	recursive bool
}

func newFileSource(fsys fs.FS, pattern string, recursive bool) *fileSource {
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultPattern
	}
	return &fileSource{fsys: fsys, pattern: pattern, recursive: recursive}
}

// read loads one file and splits its front matter from the body.
func (s *fileSource) read(ctx context.Context, name string) (*sourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := fsName(name)
	raw, err := fs.ReadFile(s.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", rel, err)
	}
	info, err := fs.Stat(s.fsys, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown: stat %s: %w", rel, err)
	}
	doc, err := BuildDocument(rel, raw, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown: %s: %w", rel, err)
	}
	sum := sha256.Sum256(raw)
	doc.Checksum = sum[:]
	return &sourceFile{doc: doc, raw: raw}, nil
}

// list reads every file under dir that matches the pattern, ordered by path.
// opts may override the pattern and recursion of the source.
func (s *fileSource) list(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*sourceFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pattern := s.pattern
	if strings.TrimSpace(opts.Pattern) != "" {
		pattern = opts.Pattern
	}
	recursive := s.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	matcher, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	root := fsName(dir)
	var names []string
	err = fs.WalkDir(s.fsys, root, func(name string, entry fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case entry.IsDir():
			if name != root && !recursive {
				return fs.SkipDir
			}
			return nil
		case matcher.match(name):
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown: walk %s: %w", root, err)
	}

	slices.Sort(names)
	files := make([]*sourceFile, 0, len(names))
	for _, name := range names {
		file, err := s.read(ctx, name)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// globMatcher matches slash separated names. Patterns without a slash match
// the base name only. A "**/" segment also stands for no directory at all, so
// "docs/**/*.md" matches "docs/guide.md".
type globMatcher struct {
	base  bool
	globs []glob.Glob
}

func compileGlob(pattern string) (*globMatcher, error) {
	m := &globMatcher{base: !strings.Contains(pattern, "/")}
	for _, variant := range globVariants(pattern) {
		g, err := glob.Compile(variant, '/')
		if err != nil {
			return nil, fmt.Errorf("markdown: pattern %q: %w", pattern, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func globVariants(pattern string) []string {
	i := strings.Index(pattern, "**/")
	if i < 0 {
		return []string{pattern}
	}
	var out []string
	for _, rest := range globVariants(pattern[i+3:]) {
		out = append(out, pattern[:i+3]+rest, pattern[:i]+rest)
	}
	return out
}

func (m *globMatcher) match(name string) bool {
	if m.base {
		name = path.Base(name)
	}
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// fsName turns a user supplied path into an fs.FS name.
func fsName(name string) string {
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, `\`, "/")), "/")
	if name == "" {
		return "."
	}
	return name
}
