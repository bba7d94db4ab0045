// Package fs implements core.Repository on top of a plain directory of
// Markdown files, versioned through git.
package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/quillworks/quill/pkg/core"
	"github.com/quillworks/quill/pkg/git"
	"github.com/quillworks/quill/pkg/markdown"
)

// Repository implements core.Repository using the filesystem and Git.
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Bare         bool // Bare disables git versioning entirely.
	MustExist    bool
	Ignore       []string // doublestar globs, relative to Path (e.g. "drafts/**")
	Logger       *slog.Logger
	SystemDir    string // e.g. ".quill"
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = ".quill"
	}
	return &Repository{
		Path:   config.Path,
		git:    git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", r.Path)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create vault directory: %w", err)
		}
	}

	if r.config.Bare {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		// If we just created the repo, commit the .gitignore to start clean
		if err := r.git.Add(".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(fmt.Sprintf("chore: ignore %s", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

// ensureIgnore makes sure the system directory is listed in .gitignore.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// filename maps a post ID to its relative path on disk.
func filename(id string) string {
	if filepath.Ext(id) == ".md" {
		return id
	}
	return id + ".md"
}

// Save persists a post to the filesystem and commits it to Git.
//
// Workflow:
//  1. Serialize front-matter and body to Markdown.
//  2. Create parent directories and write atomically.
//  3. (Unless bare) 'git add' and 'git commit' with the context change reason.
func (r *Repository) Save(ctx context.Context, p core.Post) error {
	if p.ID == "" {
		return core.ErrEmptyID
	}

	name := filename(p.ID)
	fullPath := filepath.Join(r.Path, name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := markdown.EncodePost(p)
	if err != nil {
		return fmt.Errorf("failed to serialize post: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.cache.Delete(filepath.ToSlash(name))

	if r.config.Bare {
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Add(name); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	msg := "update " + p.ID
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

// Get retrieves a post from the filesystem.
func (r *Repository) Get(ctx context.Context, id string) (core.Post, error) {
	if id == "" {
		return core.Post{}, core.ErrEmptyID
	}

	fullPath := filepath.Join(r.Path, filename(id))

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.Post{}, core.ErrNotFound
		}
		return core.Post{}, err
	}

	content, meta, err := markdown.DecodePost(data)
	if err != nil {
		return core.Post{}, fmt.Errorf("failed to parse post %s: %w", id, err)
	}

	return core.Post{ID: id, Content: content, Metadata: meta}, nil
}

// shouldSkip reports whether relPath matches one of the configured ignore globs.
func (r *Repository) shouldSkip(relPath string) bool {
	for _, pattern := range r.config.Ignore {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// List scans the directory for all posts.
//
// Strategy:
//  1. Load the metadata index from disk.
//  2. Walk the tree, skipping .git, the system dir, and ignore globs.
//  3. Per file: cache hit on mtime yields the indexed front-matter,
//     cache miss triggers a full parse and updates the index.
//  4. Persist the pruned index.
func (r *Repository) List(ctx context.Context) ([]core.Post, error) {
	var posts []core.Post

	if err := r.cache.Load(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index load failed, rebuilding", "error", err)
	}
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == r.config.SystemDir {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		relPath, err := filepath.Rel(r.Path, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if r.shouldSkip(relPath) {
			return nil
		}

		id := strings.TrimSuffix(relPath, ".md")

		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()

		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, mtime); hit {
			posts = append(posts, core.Post{
				ID: entry.ID,
				Metadata: core.Metadata{
					"title": entry.Title,
					"date":  entry.Date,
					"tags":  entry.Tags,
					"draft": entry.Draft,
				},
			})
			return nil
		}

		post, err := r.Get(ctx, id)
		if err != nil {
			return nil // Skip unparseable
		}

		entry := &indexEntry{
			ID:           id,
			Title:        post.Title(),
			Date:         post.Date(),
			Tags:         post.Tags(),
			Draft:        post.Draft(),
			LastModified: mtime,
		}
		r.cache.Set(relPath, entry)

		posts = append(posts, post)
		return nil
	})

	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if err := r.cache.Save(); err != nil && r.config.Logger != nil {
		r.config.Logger.Debug("index save failed", "error", err)
	}

	return posts, nil
}

// Delete removes a post.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrEmptyID
	}

	name := filename(id)
	fullPath := filepath.Join(r.Path, name)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return core.ErrNotFound
	}

	r.cache.Delete(filepath.ToSlash(name))

	if r.config.Bare {
		if err := os.Remove(fullPath); err != nil {
			return fmt.Errorf("failed to remove file: %w", err)
		}
		return nil
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Rm(name); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}

	msg := "delete " + id
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}

	return nil
}

// Sync synchronizes the repository with its remote.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.Bare {
		return fmt.Errorf("cannot sync a bare vault")
	}

	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	if !r.git.HasRemote() {
		return fmt.Errorf("no remote configured for %s", r.Path)
	}

	unlock, err := r.git.Lock()
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync()
}

var _ core.Repository = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)
var _ core.Watchable = (*Repository)(nil)
