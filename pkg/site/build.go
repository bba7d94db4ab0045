package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/quillworks/quill/pkg/core"
	"github.com/quillworks/quill/pkg/markdown"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// BuildResult summarizes a completed build.
type BuildResult struct {
	Pages   int // Rendered post pages (excluding the index)
	Skipped int // Drafts left out of the build
}

// Builder renders posts into a static HTML tree.
type Builder struct {
	cfg       *Config
	md        goldmark.Markdown
	layout    *template.Template
	indexTmpl *template.Template
	logger    *slog.Logger
}

// NewBuilder constructs a Builder from site configuration.
func NewBuilder(cfg *Config, logger *slog.Logger) (*Builder, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout template: %w", err)
	}
	indexTmpl, err := template.ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	style := cfg.Highlight.Style
	if style == "" {
		style = "monokai"
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	return &Builder{
		cfg:       cfg,
		md:        md,
		layout:    layout,
		indexTmpl: indexTmpl,
		logger:    logger,
	}, nil
}

// pageData feeds the post layout template.
type pageData struct {
	SiteTitle string
	Author    string
	BaseURL   string
	Title     string
	Date      string
	Tags      []string
	Content   template.HTML
}

// indexEntry feeds the index template.
type indexEntry struct {
	Slug  string
	Title string
	Date  string
	time  time.Time
}

type indexData struct {
	SiteTitle string
	BaseURL   string
	Posts     []indexEntry
}

// Slug returns the output directory name for a post: the front-matter slug
// if set, otherwise the last path element of the post ID.
func Slug(p core.Post) string {
	if s, ok := p.Metadata["slug"].(string); ok && s != "" {
		return s
	}
	return path.Base(p.ID)
}

// Build renders every non-draft post to <OutputDir>/<slug>/index.html and
// writes an index page listing posts by date descending. Posts must carry
// their full content. Posts that fail to render are reported in the
// returned error; the rest of the build still completes.
func (b *Builder) Build(ctx context.Context, posts []core.Post) (BuildResult, error) {
	var result BuildResult
	var buildErrs []error

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create output directory: %w", err)
	}

	slugs := make(map[string]string) // slug -> post ID
	var entries []indexEntry

	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if p.Draft() {
			result.Skipped++
			if b.logger != nil {
				b.logger.Debug("skipping draft", "id", p.ID)
			}
			continue
		}

		slug := Slug(p)
		if prev, dup := slugs[slug]; dup {
			buildErrs = append(buildErrs, fmt.Errorf("duplicate slug %q: %s and %s", slug, prev, p.ID))
			continue
		}
		slugs[slug] = p.ID

		if err := b.renderPost(p, slug); err != nil {
			buildErrs = append(buildErrs, fmt.Errorf("failed to render %s: %w", p.ID, err))
			continue
		}
		result.Pages++

		entry := indexEntry{Slug: slug, Title: p.Title()}
		if entry.Title == "" {
			entry.Title = slug
		}
		if d := p.Date(); d != "" {
			entry.Date = d
			for _, layout := range markdown.DateLayouts {
				if t, err := time.Parse(layout, d); err == nil {
					entry.time = t
					break
				}
			}
		}
		entries = append(entries, entry)
	}

	// Newest first, undated posts last.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].time.After(entries[j].time)
	})

	if err := b.renderIndex(entries); err != nil {
		buildErrs = append(buildErrs, fmt.Errorf("failed to render index: %w", err))
	}

	return result, errors.Join(buildErrs...)
}

func (b *Builder) renderPost(p core.Post, slug string) error {
	var body bytes.Buffer
	if err := b.md.Convert([]byte(p.Content), &body); err != nil {
		return fmt.Errorf("markdown conversion: %w", err)
	}

	data := pageData{
		SiteTitle: b.cfg.Title,
		Author:    b.cfg.Author,
		BaseURL:   b.cfg.BaseURL,
		Title:     p.Title(),
		Tags:      p.Tags(),
		Content:   template.HTML(body.String()),
	}
	if data.Title == "" {
		data.Title = slug
	}
	data.Date = p.Date()

	var page bytes.Buffer
	if err := b.layout.Execute(&page, data); err != nil {
		return fmt.Errorf("template execution: %w", err)
	}

	outDir := filepath.Join(b.cfg.OutputDir, slug)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "index.html"), page.Bytes(), 0644)
}

func (b *Builder) renderIndex(entries []indexEntry) error {
	var page bytes.Buffer
	err := b.indexTmpl.Execute(&page, indexData{
		SiteTitle: b.cfg.Title,
		BaseURL:   b.cfg.BaseURL,
		Posts:     entries,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(b.cfg.OutputDir, "index.html"), page.Bytes(), 0644)
}
