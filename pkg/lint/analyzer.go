package lint

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quillworks/quill/pkg/markdown"
)

// Analyzer runs the registered rules over posts.
type Analyzer struct {
	registry  *Registry
	verifiers map[string]Verifier
	exists    func(rel string) bool
	ignore    []string
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithExists installs the vault file-existence lookup used by link checks.
func WithExists(fn func(rel string) bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.exists = fn
	}
}

// WithVerifier adds or replaces a transcript verifier.
func WithVerifier(name string, v Verifier) AnalyzerOption {
	return func(a *Analyzer) {
		a.verifiers[name] = v
	}
}

// WithIgnore sets doublestar glob patterns excluded from vault analysis.
func WithIgnore(patterns []string) AnalyzerOption {
	return func(a *Analyzer) {
		a.ignore = patterns
	}
}

// NewAnalyzer creates an Analyzer over the given registry with the default
// transcript verifiers.
func NewAnalyzer(registry *Registry, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		registry:  registry,
		verifiers: DefaultVerifiers(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzePost runs all post-level rules over a single post.
// path is the vault-relative file path, used in diagnostics.
func (a *Analyzer) AnalyzePost(path string, src []byte) []Diagnostic {
	return a.analyzePost(path, src, a.exists)
}

func (a *Analyzer) analyzePost(path string, src []byte, exists func(rel string) bool) []Diagnostic {
	ctx := &Context{
		Path:      path,
		Source:    src,
		Doc:       markdown.Parse(src),
		Exists:    exists,
		Verifiers: a.verifiers,
	}

	var diags []Diagnostic
	for _, rule := range a.registry.Rules() {
		if rule.Check == nil {
			continue // site-level, handled by AnalyzeVault
		}
		diags = append(diags, rule.Check(ctx)...)
	}

	Sort(diags)
	return diags
}

// AnalyzeVault walks root for Markdown posts, runs post-level rules on each,
// and then the site-level checks across the whole set.
func (a *Analyzer) AnalyzeVault(root string) ([]Diagnostic, error) {
	exists := a.exists
	if exists == nil {
		exists = func(rel string) bool {
			_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
			return err == nil
		}
	}

	var diags []Diagnostic
	slugs := make(map[string][]string) // output slug -> post paths

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip hidden directories (.git, the system dir) below the root.
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range a.ignore {
			if ok, _ := doublestar.Match(pattern, relPath); ok {
				return nil
			}
		}

		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		diags = append(diags, a.analyzePost(relPath, src, exists)...)

		slug := renderSlug(relPath, src)
		slugs[slug] = append(slugs[slug], relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault: %w", err)
	}

	if a.hasRule("ST01") {
		diags = append(diags, checkDuplicateSlugs(slugs)...)
	}

	Sort(diags)
	return diags, nil
}

func (a *Analyzer) hasRule(id string) bool {
	for _, rule := range a.registry.Rules() {
		if rule.ID == id {
			return true
		}
	}
	return false
}

// renderSlug computes the output directory a post renders to: the
// front-matter slug override when present, otherwise the last path element
// without extension. This mirrors the site builder's output mapping.
func renderSlug(relPath string, src []byte) string {
	slug := path.Base(strings.TrimSuffix(relPath, ".md"))
	doc := markdown.Parse(src)
	if doc.FrontMatter != nil && doc.FrontMatter.Slug != "" {
		slug = doc.FrontMatter.Slug
	}
	return slug
}

func checkDuplicateSlugs(slugs map[string][]string) []Diagnostic {
	var diags []Diagnostic
	for slug, paths := range slugs {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		for _, p := range paths[1:] {
			diags = append(diags, Diagnostic{
				RuleID: "ST01", Severity: SeverityError, Path: p, Line: 1,
				Message: fmt.Sprintf("renders to slug %q already used by %s", slug, paths[0]),
			})
		}
	}
	return diags
}
