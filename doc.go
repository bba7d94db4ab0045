// Package quill is the composition root for the Quill application.
//
// Quill manages a blog vault: a git-versioned directory of Markdown posts
// with YAML front-matter. The core domain (pkg/core) stays agnostic of
// storage; the default adapter (pkg/adapters/fs) persists posts to the
// filesystem and commits every change.
//
// On top of the vault, Quill ships a documentation toolchain:
//
//   - **Lint** (pkg/lint): structural checks for front-matter, code fences,
//     snippet languages, relative links, and console transcripts.
//   - **Build** (pkg/site): a static HTML renderer with syntax highlighting.
//   - **Distance** (pkg/textdist): the Levenshtein edit distance used by the
//     transcript verifier and the `quill distance` command.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := quill.New("./content",
//		quill.WithAutoInit(true),
//		quill.WithLogger(logger),
//	)
//
//	// Save a post
//	err := svc.SavePost(ctx, "hello-ffi", "# Hello\n", nil)
package quill
