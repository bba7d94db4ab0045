package markdown_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/pkg/markdown"
)

const samplePost = `---
title: Calling Rust from Python
date: 2024-02-20
tags: [ffi, rust, python]
---
# Calling Rust from Python

Compile the library first:

` + "```bash" + `
cargo build --release
` + "```" + `

Then load it:

` + "```python" + `
from ctypes import cdll
lib = cdll.LoadLibrary("target/release/libadder.so")
print(lib.add(2, 3))
` + "```" + `

See [the previous post](./gdb-setup.md) and the [docs](https://doc.rust-lang.org/).
`

func TestParse(t *testing.T) {
	doc := markdown.Parse([]byte(samplePost))

	require.True(t, doc.HasFrontMatter)
	require.NoError(t, doc.FrontMatterErr)
	require.NotNil(t, doc.FrontMatter)
	assert.Equal(t, "Calling Rust from Python", doc.FrontMatter.Title)
	assert.Empty(t, doc.UnknownFields)
}

func TestDocument_CodeBlocks(t *testing.T) {
	doc := markdown.Parse([]byte(samplePost))

	blocks := doc.CodeBlocks()
	require.Len(t, blocks, 2)

	assert.Equal(t, "bash", blocks[0].Language)
	assert.Equal(t, "cargo build --release\n", blocks[0].Body)
	// The opening fence is on line 10 of the file (front-matter is 5 lines).
	assert.Equal(t, 10, blocks[0].Line)

	assert.Equal(t, "python", blocks[1].Language)
	assert.Contains(t, blocks[1].Body, "cdll.LoadLibrary")
}

func TestDocument_Links(t *testing.T) {
	doc := markdown.Parse([]byte(samplePost))

	links := doc.Links()
	require.Len(t, links, 2)
	assert.Equal(t, "./gdb-setup.md", links[0].Destination)
	assert.Equal(t, "https://doc.rust-lang.org/", links[1].Destination)
	assert.Greater(t, links[0].Line, 0)
}

func TestDocument_Headings(t *testing.T) {
	doc := markdown.Parse([]byte(samplePost))

	headings := doc.Headings()
	require.Len(t, headings, 1)
	assert.Equal(t, 1, headings[0].Level)
	assert.Equal(t, "Calling Rust from Python", headings[0].Text)
	assert.Equal(t, 6, headings[0].Line)
}

func TestParse_FrontMatterDefects(t *testing.T) {
	t.Run("unclosed header stops body analysis", func(t *testing.T) {
		doc := markdown.Parse([]byte("---\ntitle: broken\nbody"))
		assert.True(t, doc.HasFrontMatter)
		assert.ErrorIs(t, doc.FrontMatterErr, markdown.ErrUnclosedFrontMatter)
		assert.Nil(t, doc.CodeBlocks())
	})

	t.Run("invalid yaml still parses body", func(t *testing.T) {
		doc := markdown.Parse([]byte("---\ntitle: [oops\n---\n# Heading\n"))
		assert.Error(t, doc.FrontMatterErr)
		assert.Nil(t, doc.FrontMatter)
		require.Len(t, doc.Headings(), 1)
	})

	t.Run("no front-matter", func(t *testing.T) {
		doc := markdown.Parse([]byte("# Plain\n"))
		assert.False(t, doc.HasFrontMatter)
		assert.NoError(t, doc.FrontMatterErr)
		require.Len(t, doc.Headings(), 1)
		assert.Equal(t, 1, doc.Headings()[0].Line)
	})
}
