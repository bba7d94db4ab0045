package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".quill.lock", nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	// Verify lock file exists
	lockPath := filepath.Join(tmpDir, ".quill.lock")
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	unlock()

	// Verify lock file removed
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_Init(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".quill.lock", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".git")); os.IsNotExist(err) {
		t.Error(".git directory not created")
	}

	if !client.IsRepo() {
		t.Error("IsRepo should report true after init")
	}
}

func TestClient_AddCommitStatus(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".quill.lock", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	// Local identity so commit works on CI machines without global config.
	if _, err := client.Run("config", "user.email", "test@example.com"); err != nil {
		t.Fatalf("Failed to set user.email: %v", err)
	}
	if _, err := client.Run("config", "user.name", "Test"); err != nil {
		t.Fatalf("Failed to set user.name: %v", err)
	}

	postPath := filepath.Join(tmpDir, "hello.md")
	if err := os.WriteFile(postPath, []byte("# Hello"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !strings.Contains(status, "hello.md") {
		t.Errorf("Status should list untracked file, got: %q", status)
	}

	if err := client.Add("hello.md"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit("new post: hello"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status != "" {
		t.Errorf("Expected clean status after commit, got: %q", status)
	}

	if client.HasRemote() {
		t.Error("HasRemote should be false for a fresh local repo")
	}
}

func TestClient_Rm(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}

	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".quill.lock", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if _, err := client.Run("config", "user.email", "test@example.com"); err != nil {
		t.Fatalf("Failed to set user.email: %v", err)
	}
	if _, err := client.Run("config", "user.name", "Test"); err != nil {
		t.Fatalf("Failed to set user.name: %v", err)
	}

	postPath := filepath.Join(tmpDir, "gone.md")
	if err := os.WriteFile(postPath, []byte("# Gone"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := client.Add("gone.md"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := client.Commit("new post: gone"); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if err := client.Rm("gone.md"); err != nil {
		t.Fatalf("Rm failed: %v", err)
	}
	if _, err := os.Stat(postPath); !os.IsNotExist(err) {
		t.Error("Rm should remove the file from the working tree")
	}
}
