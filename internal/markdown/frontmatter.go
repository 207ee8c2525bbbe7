package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-mdtree/pkg/interfaces"
)

// ParseFrontMatter extracts metadata from source. It returns the structured
// front matter, the raw header block (delimiters included) and the Markdown
// body. Sources without front matter yield an empty header and the whole
// source as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	var header []byte
	if len(body) < len(source) && bytes.HasSuffix(source, body) {
		header = append([]byte(nil), source[:len(source)-len(body)]...)
		// Blank lines after the closing delimiter belong to the header.
		for len(body) > 0 && (body[0] == '\n' || body[0] == '\r') {
			header = append(header, body[0])
			body = body[1:]
		}
	}
	return envelopeToFrontMatter(meta), header, body, nil
}

// AttachFrontMatter puts a header returned by ParseFrontMatter back in front
// of body.
func AttachFrontMatter(header []byte, body string) string {
	if len(header) == 0 {
		return body
	}
	return string(header) + body
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content and modification time. BodyHTML is left empty so callers can
// render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, header, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Header:       header,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title" toml:"title"`
	Slug    string         `yaml:"slug" toml:"slug"`
	Summary string         `yaml:"summary" toml:"summary"`
	Tags    []string       `yaml:"tags" toml:"tags"`
	Author  string         `yaml:"author" toml:"author"`
	Date    time.Time      `yaml:"date" toml:"date"`
	Draft   bool           `yaml:"draft" toml:"draft"`
	Custom  map[string]any `yaml:",inline" toml:"-"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	custom := map[string]any{}
	maps.Copy(custom, env.Custom)

	raw := make(map[string]any, len(custom)+7)
	maps.Copy(raw, custom)
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Summary != "" {
		raw["summary"] = env.Summary
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:   env.Title,
		Slug:    env.Slug,
		Summary: env.Summary,
		Tags:    append([]string(nil), env.Tags...),
		Author:  env.Author,
		Date:    env.Date,
		Draft:   env.Draft,
		Custom:  custom,
		Raw:     raw,
	}
}
