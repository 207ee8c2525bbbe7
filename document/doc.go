// Package document models the tree produced by Markdown import and consumed by
// export. A Root owns an ordered list of blocks; every block owns inline nodes
// (formatted text runs, line breaks, links, custom inline nodes). The package
// also exposes the node kind registry used by transformers to declare their
// dependencies, a structural equality helper, and a JSON codec validated
// against an embedded JSON Schema.
package document
