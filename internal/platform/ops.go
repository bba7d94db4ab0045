package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/quillworks/quill/pkg/adapters/fs"
	"github.com/quillworks/quill/pkg/core"
)

// Init initializes a vault at the given path and returns the configured
// core.Repository.
func Init(path string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(path, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// initFS handles the initialization logic for the filesystem adapter.
func initFS(path string, o *options) (core.Repository, error) {
	autoInit, _ := o.config["auto_init"].(bool)
	bare, _ := o.config["bare"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	ignore, _ := o.config["ignore"].([]string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	useTemp := tempDir || (IsDevRun() && devSafety)
	resolvedPath := ResolveVaultPath(path, useTemp)

	if o.logger != nil && useTemp {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolvedPath)
	}

	if systemDir == "" {
		systemDir = ".quill"
	}

	// Bare detection: if versioning was not explicitly configured, follow
	// what is on disk. A .git directory means a versioned vault; a vault
	// that was initialized without git stays bare.
	if _, explicit := o.config["bare"]; !explicit {
		gitPath := filepath.Join(resolvedPath, ".git")
		systemPath := filepath.Join(resolvedPath, systemDir)

		if _, err := os.Stat(gitPath); err == nil {
			bare = false
		} else if autoInit {
			if _, err := os.Stat(systemPath); err == nil {
				bare = true
			} else {
				bare = false
			}
		} else {
			bare = true
		}

		if bare && o.logger != nil {
			o.logger.Debug("auto-detected bare mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolvedPath,
		AutoInit:     autoInit,
		Bare:         bare,
		MustExist:    mustExist || (!autoInit && !useTemp),
		Ignore:       ignore,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	}), nil
}

// Sync synchronizes the vault at the given path with its remote.
func Sync(path string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var repo core.Repository
	if o.repository != nil {
		repo = o.repository
	} else {
		var err error
		switch o.adapter {
		case "fs":
			// Sync expects the vault to exist.
			o.config["must_exist"] = true
			repo, err = initFS(path, o)
		default:
			return fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return err
		}
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("repository does not support synchronization")
	}

	return syncable.Sync(context.Background())
}
