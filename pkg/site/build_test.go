package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/pkg/core"
	"github.com/quillworks/quill/pkg/markdown"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Title:     "Test Site",
		BaseURL:   "/",
		OutputDir: filepath.Join(t.TempDir(), "public"),
		Highlight: HighlightConfig{Style: "monokai"},
	}
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	posts := []core.Post{
		{
			ID:      "hello-ffi",
			Content: "# Hello\n\nSome `C` code:\n\n```c\nint main(void) { return 0; }\n```\n",
			Metadata: core.Metadata{
				"title": "Hello FFI",
				"date":  "2024-05-02",
				"tags":  []string{"ffi"},
			},
		},
		{
			ID:       "older",
			Content:  "body\n",
			Metadata: core.Metadata{"title": "Older Post", "date": "2023-01-01"},
		},
		{
			ID:       "wip",
			Content:  "unfinished\n",
			Metadata: core.Metadata{"title": "WIP", "draft": true},
		},
	}

	result, err := b.Build(context.Background(), posts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, result.Skipped)

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "hello-ffi", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Hello FFI")
	assert.Contains(t, string(page), "<pre") // highlighted code block

	// Drafts produce no page.
	_, err = os.Stat(filepath.Join(cfg.OutputDir, "wip"))
	assert.True(t, os.IsNotExist(err))

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	require.NoError(t, err)
	idx := string(index)
	assert.Contains(t, idx, "Hello FFI")
	assert.Contains(t, idx, "Older Post")
	assert.NotContains(t, idx, "WIP")
	// Newest first.
	assert.Less(t, strings.Index(idx, "Hello FFI"), strings.Index(idx, "Older Post"))
}

func TestBuild_DecodedPostsSortByDate(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	// Posts as the codec produces them, with the unquoted date form used
	// in real front-matter.
	decode := func(id, src string) core.Post {
		content, meta, err := markdown.DecodePost([]byte(src))
		require.NoError(t, err)
		return core.Post{ID: id, Content: content, Metadata: meta}
	}
	posts := []core.Post{
		decode("older", "---\ntitle: Older\ndate: 2023-01-01\n---\nbody\n"),
		decode("newer", "---\ntitle: Newer\ndate: 2024-05-02\n---\nbody\n"),
	}

	_, err = b.Build(context.Background(), posts)
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, "index.html"))
	require.NoError(t, err)
	idx := string(index)
	assert.Contains(t, idx, "2024-05-02")
	assert.Contains(t, idx, "2023-01-01")
	assert.Less(t, strings.Index(idx, "Newer"), strings.Index(idx, "Older"))

	page, err := os.ReadFile(filepath.Join(cfg.OutputDir, "newer", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "2024-05-02")
}

func TestBuild_SlugOverride(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	posts := []core.Post{
		{
			ID:       "2024/some-long-path",
			Content:  "body\n",
			Metadata: core.Metadata{"title": "Custom", "slug": "custom-slug"},
		},
	}

	_, err = b.Build(context.Background(), posts)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, "custom-slug", "index.html"))
	assert.NoError(t, err)
}

func TestBuild_DuplicateSlug(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, nil)
	require.NoError(t, err)

	posts := []core.Post{
		{ID: "a/hello", Content: "x\n", Metadata: core.Metadata{"title": "A"}},
		{ID: "b/hello", Content: "y\n", Metadata: core.Metadata{"title": "B"}},
	}

	result, err := b.Build(context.Background(), posts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate slug")
	// The first post still renders.
	assert.Equal(t, 1, result.Pages)
}
