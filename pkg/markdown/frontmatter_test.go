package markdown_test

import (
	"errors"
	"testing"
	"time"

	"github.com/quillworks/quill/pkg/markdown"
)

func TestSplitFrontMatter(t *testing.T) {
	t.Run("splits header and body", func(t *testing.T) {
		data := []byte("---\ntitle: FFI Basics\n---\n# Hello\n")
		fm, body, hasFM, err := markdown.SplitFrontMatter(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasFM {
			t.Fatal("expected front-matter to be detected")
		}
		if string(fm) != "title: FFI Basics\n" {
			t.Errorf("unexpected front-matter: %q", fm)
		}
		if string(body) != "# Hello\n" {
			t.Errorf("unexpected body: %q", body)
		}
	})

	t.Run("no front-matter", func(t *testing.T) {
		data := []byte("# Just a body\n")
		_, body, hasFM, err := markdown.SplitFrontMatter(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasFM {
			t.Error("expected no front-matter")
		}
		if string(body) != "# Just a body\n" {
			t.Errorf("body should be the whole file, got %q", body)
		}
	})

	t.Run("unclosed front-matter", func(t *testing.T) {
		data := []byte("---\ntitle: Broken\n# Hello\n")
		_, _, hasFM, err := markdown.SplitFrontMatter(data)
		if !hasFM {
			t.Error("expected front-matter opening to be detected")
		}
		if !errors.Is(err, markdown.ErrUnclosedFrontMatter) {
			t.Errorf("expected ErrUnclosedFrontMatter, got %v", err)
		}
	})

	t.Run("CRLF delimiters", func(t *testing.T) {
		data := []byte("---\r\ntitle: Windows\r\n---\r\nbody")
		_, body, hasFM, err := markdown.SplitFrontMatter(data)
		if err != nil || !hasFM {
			t.Fatalf("hasFM=%v err=%v", hasFM, err)
		}
		if string(body) != "body" {
			t.Errorf("unexpected body: %q", body)
		}
	})
}

func TestParseFrontMatter(t *testing.T) {
	t.Run("typed fields", func(t *testing.T) {
		fm := []byte("title: Calling C from Lua\ndate: 2024-03-01\ntags: [ffi, lua]\ndraft: true\n")
		parsed, unknown, err := markdown.ParseFrontMatter(fm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed.Title != "Calling C from Lua" {
			t.Errorf("unexpected title: %q", parsed.Title)
		}
		if len(parsed.Tags) != 2 || parsed.Tags[0] != "ffi" {
			t.Errorf("unexpected tags: %v", parsed.Tags)
		}
		if !parsed.Draft {
			t.Error("expected draft")
		}
		if len(unknown) != 0 {
			t.Errorf("expected no unknown fields, got %v", unknown)
		}
	})

	t.Run("unknown fields reported sorted", func(t *testing.T) {
		fm := []byte("title: x\nzebra: 1\nauthor: me\n")
		_, unknown, err := markdown.ParseFrontMatter(fm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(unknown) != 2 || unknown[0] != "author" || unknown[1] != "zebra" {
			t.Errorf("unexpected unknown fields: %v", unknown)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, _, err := markdown.ParseFrontMatter([]byte("title: [unbalanced\n")); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestFrontMatterTime(t *testing.T) {
	cases := []struct {
		date string
		ok   bool
	}{
		{"2024-03-01", true},
		{"2024-03-01T10:30:00Z", true},
		{"2024-03-01 10:30", true},
		{"March 1st", false},
		{"", false},
	}

	for _, tc := range cases {
		fm := markdown.FrontMatter{Date: tc.date}
		parsed, err := fm.Time()
		if tc.ok && err != nil {
			t.Errorf("Time(%q) failed: %v", tc.date, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Time(%q) should have failed", tc.date)
		}
		if tc.ok && parsed.Year() != 2024 {
			t.Errorf("Time(%q) parsed to %v", tc.date, parsed)
		}
	}

	// Explicit layout check for the most common form.
	fm := markdown.FrontMatter{Date: "2024-03-01"}
	parsed, _ := fm.Time()
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Errorf("expected %v, got %v", want, parsed)
	}
}
