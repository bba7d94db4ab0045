// Package platform wires the vault service together: option parsing,
// adapter construction, and dev-run safety.
package platform

import (
	"log/slog"

	"github.com/quillworks/quill/pkg/core"
)

// options holds the internal configuration for the quill service.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	adapter    string
	config     map[string]interface{}
}

// Option defines a functional option for configuring the vault.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]interface{}),
	}
}

// WithAutoInit enables automatic initialization of the vault (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables version control (git).
// By default, versioning is enabled. Passing false yields a bare vault.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["bare"] = !enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository allows injecting a custom storage adapter (e.g. mock).
// If provided, the default filesystem adapter will be skipped.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".quill").
// Defaults to ".quill" if not set (handled by adapter).
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithIgnore sets doublestar globs for paths the vault should not treat as posts.
func WithIgnore(patterns []string) Option {
	return func(o *options) {
		o.config["ignore"] = patterns
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the Watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithDevSafety controls the sandbox mechanism when running via `go run`.
// By default (true), the vault is re-rooted into a temporary directory to
// prevent accidental writes into the host repository.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}
