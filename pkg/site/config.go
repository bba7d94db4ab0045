// Package site holds the site configuration and the static HTML builder.
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// configNames are the recognized config file names, in priority order.
var configNames = []string{"quill.yaml", "quill.yml"}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	Disable []string `koanf:"disable"`
}

// HighlightConfig holds syntax highlighting configuration for the build.
type HighlightConfig struct {
	Style string `koanf:"style"`
}

// Config holds all site configuration options.
type Config struct {
	Title      string          `koanf:"title"`
	Author     string          `koanf:"author"`
	BaseURL    string          `koanf:"base_url"`
	ContentDir string          `koanf:"content_dir"`
	OutputDir  string          `koanf:"output_dir"`
	Ignore     []string        `koanf:"ignore"`
	Lint       LintConfig      `koanf:"lint"`
	Highlight  HighlightConfig `koanf:"highlight"`
}

// defaults returns the built-in configuration values.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"title":           "Quill Site",
		"base_url":        "/",
		"content_dir":     ".",
		"output_dir":      "public",
		"highlight.style": "monokai",
	}
}

// FindConfigFile finds the config file to use.
// Priority: explicit path > quill.yaml > quill.yml in dir.
func FindConfigFile(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// FindProjectRoot searches upward from startDir for a quill config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// LoadConfig loads configuration from file and environment variables.
// Precedence (highest to lowest): env vars > config file > defaults.
// cfgFile may be empty, in which case quill.yaml/quill.yml is searched in dir.
func LoadConfig(cfgFile, dir string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFile := FindConfigFile(cfgFile, dir)
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. Load environment variables (QUILL_ prefix). Single underscores
	// stay part of the key, double underscores nest:
	// QUILL_OUTPUT_DIR -> output_dir, QUILL_HIGHLIGHT__STYLE -> highlight.style
	if err := k.Load(env.Provider("QUILL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "QUILL_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Resolve relative paths against the directory the config lives in.
	base := dir
	if configFile != "" {
		if abs, err := filepath.Abs(configFile); err == nil {
			base = filepath.Dir(abs)
		}
	}
	cfg.ContentDir = resolvePathRelativeTo(cfg.ContentDir, base)
	cfg.OutputDir = resolvePathRelativeTo(cfg.OutputDir, base)

	return &cfg, nil
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
