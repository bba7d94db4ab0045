package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/quill/pkg/lint"
)

func analyze(t *testing.T, src string) []lint.Diagnostic {
	t.Helper()
	a := lint.NewAnalyzer(lint.Defaults())
	return a.AnalyzePost("posts/sample.md", []byte(src))
}

func ruleIDs(diags []lint.Diagnostic) []string {
	var ids []string
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}

const validPost = `---
title: Calling C from Lua with the FFI
date: 2024-02-20
tags: [ffi, lua]
---
# Calling C from Lua

` + "```c" + `
int add(int a, int b) { return a + b; }
` + "```" + `

` + "```console" + `
$ expr 2 + 3
5
$ distance "den" "hen"
1
` + "```" + `
`

func TestValidPostHasNoFindings(t *testing.T) {
	diags := analyze(t, validPost)
	assert.Empty(t, diags, "expected no diagnostics, got: %v", diags)
}

func TestFrontMatterRules(t *testing.T) {
	t.Run("FM01 missing front-matter", func(t *testing.T) {
		diags := analyze(t, "# No header\n")
		assert.Contains(t, ruleIDs(diags), "FM01")
	})

	t.Run("FM02 unclosed front-matter", func(t *testing.T) {
		diags := analyze(t, "---\ntitle: x\nbody without closing\n")
		assert.Contains(t, ruleIDs(diags), "FM02")
		assert.NotContains(t, ruleIDs(diags), "FM03")
	})

	t.Run("FM03 invalid yaml", func(t *testing.T) {
		diags := analyze(t, "---\ntitle: [broken\n---\nbody\n")
		assert.Contains(t, ruleIDs(diags), "FM03")
	})

	t.Run("FM04 missing title", func(t *testing.T) {
		diags := analyze(t, "---\ndate: 2024-01-01\n---\nbody\n")
		assert.Contains(t, ruleIDs(diags), "FM04")
		assert.NotContains(t, ruleIDs(diags), "FM05")
	})

	t.Run("FM05 bad date", func(t *testing.T) {
		diags := analyze(t, "---\ntitle: x\ndate: someday\n---\nbody\n")
		assert.Contains(t, ruleIDs(diags), "FM05")
	})

	t.Run("FM05 missing date", func(t *testing.T) {
		diags := analyze(t, "---\ntitle: x\n---\nbody\n")
		assert.Contains(t, ruleIDs(diags), "FM05")
	})

	t.Run("FM06 unknown field", func(t *testing.T) {
		diags := analyze(t, "---\ntitle: x\ndate: 2024-01-01\nauthor: me\n---\nbody\n")
		require.Contains(t, ruleIDs(diags), "FM06")
		for _, d := range diags {
			if d.RuleID == "FM06" {
				assert.Equal(t, lint.SeverityWarning, d.Severity)
				assert.Contains(t, d.Message, "author")
			}
		}
	})
}

func TestMarkdownRules(t *testing.T) {
	header := "---\ntitle: x\ndate: 2024-01-01\n---\n"

	t.Run("MD01 unclosed fence", func(t *testing.T) {
		diags := analyze(t, header+"```go\nfunc main() {}\n")
		assert.Contains(t, ruleIDs(diags), "MD01")
	})

	t.Run("MD01 balanced fences pass", func(t *testing.T) {
		diags := analyze(t, header+"```go\nfunc main() {}\n```\n\n~~~python\nx = 1\n~~~\n")
		assert.NotContains(t, ruleIDs(diags), "MD01")
	})

	t.Run("MD02 bare fence", func(t *testing.T) {
		diags := analyze(t, header+"```\nplain\n```\n")
		assert.Contains(t, ruleIDs(diags), "MD02")
	})

	t.Run("MD03 unknown language", func(t *testing.T) {
		diags := analyze(t, header+"```klingon\nqapla\n```\n")
		assert.Contains(t, ruleIDs(diags), "MD03")
		assert.NotContains(t, ruleIDs(diags), "MD04")
	})

	t.Run("MD04 invalid snippet", func(t *testing.T) {
		// '@' is not a valid JSON token; chroma emits an error token.
		diags := analyze(t, header+"```json\n{\"a\": @}\n```\n")
		assert.Contains(t, ruleIDs(diags), "MD04")
	})

	t.Run("MD04 valid snippet passes", func(t *testing.T) {
		diags := analyze(t, header+"```json\n{\"a\": 1}\n```\n")
		assert.NotContains(t, ruleIDs(diags), "MD04")
	})

	t.Run("MD05 broken relative link", func(t *testing.T) {
		a := lint.NewAnalyzer(lint.Defaults(), lint.WithExists(func(rel string) bool {
			return rel == "posts/gdb-setup.md"
		}))

		diags := a.AnalyzePost("posts/sample.md", []byte(header+"See [prev](./gdb-setup.md) and [gone](./missing.md).\n"))
		ids := ruleIDs(diags)
		require.Contains(t, ids, "MD05")

		count := 0
		for _, d := range diags {
			if d.RuleID == "MD05" {
				count++
				assert.Contains(t, d.Message, "./missing.md")
			}
		}
		assert.Equal(t, 1, count, "only the missing target should be reported")
	})

	t.Run("MD05 skips absolute URLs and anchors", func(t *testing.T) {
		a := lint.NewAnalyzer(lint.Defaults(), lint.WithExists(func(string) bool { return false }))
		diags := a.AnalyzePost("posts/sample.md",
			[]byte(header+"[a](https://example.com) [b](#section) [c](mailto:x@y.z)\n"))
		assert.NotContains(t, ruleIDs(diags), "MD05")
	})
}

func TestTranscriptRules(t *testing.T) {
	header := "---\ntitle: x\ndate: 2024-01-01\n---\n"

	t.Run("TS01 distance mismatch", func(t *testing.T) {
		diags := analyze(t, header+"```console\n$ distance \"den\" \"hen\"\n2\n```\n")
		require.Contains(t, ruleIDs(diags), "TS01")
		for _, d := range diags {
			if d.RuleID == "TS01" {
				assert.Contains(t, d.Message, `"1"`)
			}
		}
	})

	t.Run("TS01 distance match passes", func(t *testing.T) {
		diags := analyze(t, header+"```console\n$ distance \"den\" \"hen\"\n1\n```\n")
		assert.NotContains(t, ruleIDs(diags), "TS01")
	})

	t.Run("TS01 arithmetic claim", func(t *testing.T) {
		diags := analyze(t, header+"```console\n$ expr 2 + 3\n6\n```\n")
		assert.Contains(t, ruleIDs(diags), "TS01")
	})

	t.Run("TS01 tool wrapper resolves subcommand", func(t *testing.T) {
		diags := analyze(t, header+"```console\n$ ./quill distance den hen\n1\n```\n")
		assert.NotContains(t, ruleIDs(diags), "TS01")
	})

	t.Run("TS01 skips unverifiable commands", func(t *testing.T) {
		diags := analyze(t, header+"```console\n$ gcc -shared -o libadd.so add.c\n$ ls\nlibadd.so\n```\n")
		assert.NotContains(t, ruleIDs(diags), "TS01")
	})

	t.Run("TS02 orphan output", func(t *testing.T) {
		diags := analyze(t, header+"```console\nstray\n$ true\n```\n")
		assert.Contains(t, ruleIDs(diags), "TS02")
	})
}

func TestDiagnosticPositions(t *testing.T) {
	src := "---\ntitle: x\ndate: 2024-01-01\n---\nprose\n\n```json\n{\"a\": @}\n```\n"
	diags := analyze(t, src)

	require.Len(t, diags, 1)
	assert.Equal(t, "MD04", diags[0].RuleID)
	// The bad token sits on line 8 of the file.
	assert.Equal(t, 8, diags[0].Line)
	assert.Equal(t, "posts/sample.md", diags[0].Path)
}
