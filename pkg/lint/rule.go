package lint

import (
	"github.com/quillworks/quill/pkg/markdown"
)

// Context carries everything a rule needs to evaluate one post.
// Rules are stateless; all state comes through here.
type Context struct {
	// Path is the post's path relative to the vault root, including the
	// .md extension.
	Path string

	// Source is the raw file content.
	Source []byte

	// Doc is the parsed document.
	Doc *markdown.Document

	// Exists reports whether a vault-relative path exists. Nil disables
	// link-target checks.
	Exists func(rel string) bool

	// Verifiers judge transcript commands. Keyed by command name.
	Verifiers map[string]Verifier
}

// CheckFunc analyzes a post and returns diagnostics.
type CheckFunc func(ctx *Context) []Diagnostic

// RuleDef is a data-driven rule definition.
type RuleDef struct {
	ID          string // Unique identifier, e.g. "FM01"
	Name        string // Human-readable name, e.g. "frontmatter.missing"
	Group       string // Category: "frontmatter", "markdown", "transcript", "site"
	Description string
	Severity    Severity
	Check       CheckFunc
}
