package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, "Quill Site", cfg.Title)
	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, dir, cfg.ContentDir)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.OutputDir)
	assert.Equal(t, "monokai", cfg.Highlight.Style)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `title: FFI Field Notes
author: J. Writer
base_url: https://example.com/
content_dir: posts
output_dir: dist
ignore:
  - drafts/**
lint:
  disable:
    - MD03
highlight:
  style: dracula
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, "FFI Field Notes", cfg.Title)
	assert.Equal(t, "J. Writer", cfg.Author)
	assert.Equal(t, filepath.Join(dir, "posts"), cfg.ContentDir)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.OutputDir)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
	assert.Equal(t, []string{"MD03"}, cfg.Lint.Disable)
	assert.Equal(t, "dracula", cfg.Highlight.Style)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quill.yml"), []byte("title: From File\n"), 0644))

	t.Setenv("QUILL_TITLE", "From Env")
	t.Setenv("QUILL_HIGHLIGHT__STYLE", "dracula")

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
	assert.Equal(t, "dracula", cfg.Highlight.Style)
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()

	assert.Equal(t, "", FindConfigFile("", dir))
	assert.Equal(t, "explicit.yaml", FindConfigFile("explicit.yaml", dir))

	yml := filepath.Join(dir, "quill.yml")
	require.NoError(t, os.WriteFile(yml, []byte("title: x\n"), 0644))
	assert.Equal(t, yml, FindConfigFile("", dir))

	// .yaml wins over .yml
	yaml := filepath.Join(dir, "quill.yaml")
	require.NoError(t, os.WriteFile(yaml, []byte("title: x\n"), 0644))
	assert.Equal(t, yaml, FindConfigFile("", dir))
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "posts", "debugging")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "quill.yaml"), []byte("title: x\n"), 0644))

	assert.Equal(t, root, FindProjectRoot(nested))
	assert.Equal(t, "", FindProjectRoot(t.TempDir()))
}
