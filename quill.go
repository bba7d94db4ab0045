package quill

import (
	"log/slog"

	"github.com/quillworks/quill/internal/platform"
	"github.com/quillworks/quill/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring the vault.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables version control (git).
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".quill").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithIgnore sets doublestar globs for paths the vault should not treat as posts.
func WithIgnore(patterns []string) Option {
	return platform.WithIgnore(patterns)
}

// WithWatcherErrorHandler registers a callback for watcher runtime errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithDevSafety controls the sandbox mechanism when running via `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a new vault Service.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// --- Operations ---

// Sync performs a synchronization (pull/push) of the vault.
func Sync(path string, opts ...Option) error {
	return platform.Sync(path, opts...)
}

// FindRoot locates the vault root by walking up from startDir.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
