package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		c := newCache(tmpDir, ".quill")

		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty entries, got %d", c.Len())
		}
	})

	t.Run("Self-Heals on Corrupted JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheDir := filepath.Join(tmpDir, ".quill")
		os.MkdirAll(cacheDir, 0755)
		os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte("{not json"), 0644)

		c := newCache(tmpDir, ".quill")
		if err := c.Load(); err != nil {
			t.Fatalf("Load should not fail on corruption: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty entries after corruption, got %d", c.Len())
		}
	})
}

func TestCache_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	mtime := time.Now().Truncate(time.Second)

	c := newCache(tmpDir, ".quill")
	c.Set("posts/hello.md", &indexEntry{
		ID:           "posts/hello",
		Title:        "Hello",
		Date:         "2024-05-01",
		Tags:         []string{"intro"},
		LastModified: mtime,
	})

	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	c2 := newCache(tmpDir, ".quill")
	if err := c2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	entry, hit := c2.Get("posts/hello.md", mtime)
	if !hit {
		t.Fatal("expected cache hit for matching mtime")
	}
	if entry.Title != "Hello" || entry.Date != "2024-05-01" {
		t.Errorf("unexpected entry: %+v", entry)
	}

	// Stale mtime must miss.
	if _, hit := c2.Get("posts/hello.md", mtime.Add(time.Second)); hit {
		t.Error("expected cache miss for changed mtime")
	}
}

func TestCache_Prune(t *testing.T) {
	tmpDir := t.TempDir()
	c := newCache(tmpDir, ".quill")

	c.Set("a.md", &indexEntry{ID: "a"})
	c.Set("b.md", &indexEntry{ID: "b"})

	c.Prune(map[string]bool{"a.md": true})

	if c.Len() != 1 {
		t.Errorf("expected 1 entry after prune, got %d", c.Len())
	}
	if _, hit := c.Get("b.md", time.Time{}); hit {
		t.Error("pruned entry should be gone")
	}
}

func TestCache_SaveSkipsWhenClean(t *testing.T) {
	tmpDir := t.TempDir()
	c := newCache(tmpDir, ".quill")

	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(c.Path); !os.IsNotExist(err) {
		t.Error("clean cache should not write a file")
	}
}
