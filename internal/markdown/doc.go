// Package markdown loads Markdown files from a filesystem, splits off their
// front matter, converts the body into a document tree and renders HTML
// previews with goldmark.
package markdown
