// Package config handles project discovery and configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/stackform/internal/document"
)

const (
	// FileName is the project configuration file.
	FileName = ".stackform.yml"

	// TemplatesDir is the conventional fragment directory under the root.
	TemplatesDir = "templates"

	// EnvTemplatePath prepends fragment locations, as an OS path list.
	EnvTemplatePath = "STACKFORM_TEMPLATE_PATH"
)

// ErrRootNotFound is returned when no project root exists above a directory.
var ErrRootNotFound = errors.New("project root not found (no .stackform.yml or templates/ directory)")

// Config holds the stackform project configuration.
type Config struct {
	// Root is the project root directory.
	Root string `yaml:"-"`

	// TemplatePaths are extra fragment locations. Relative paths resolve
	// against Root; URLs are kept as given.
	TemplatePaths []string `yaml:"template_paths"`

	// Format is the output format, yaml or json.
	Format string `yaml:"format"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
}

// FindRoot searches upward from the current directory to find the project root.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return FindRootFrom(dir)
}

// FindRootFrom searches upward from dir. The project root is the first
// directory holding a .stackform.yml file or a templates/ directory.
func FindRootFrom(dir string) (string, error) {
	for {
		if info, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !info.IsDir() {
			return dir, nil
		}
		if info, err := os.Stat(filepath.Join(dir, TemplatesDir)); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", ErrRootNotFound
}

// Load finds the project root from the working directory and reads its
// configuration. Without a root, the working directory is used with
// defaults.
func Load() (*Config, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	root, err := FindRootFrom(dir)
	if errors.Is(err, ErrRootNotFound) {
		root = dir
	} else if err != nil {
		return nil, err
	}
	return LoadFrom(root)
}

// LoadFrom reads root/.stackform.yml if present.
func LoadFrom(root string) (*Config, error) {
	cfg := &Config{Root: root}

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	cfg.Root = root

	if cfg.Format != "" {
		if _, err := document.ParseFormat(cfg.Format); err != nil {
			return nil, fmt.Errorf("%s: %w", FileName, err)
		}
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	return cfg, nil
}

// SearchPaths returns the fragment locations in search order: extra paths
// given by the caller, then STACKFORM_TEMPLATE_PATH entries, then the
// configured template_paths, then root/templates.
func (c *Config) SearchPaths(extra ...string) []string {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" {
			return
		}
		p = c.resolve(p)
		if seen[p] {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	for _, p := range extra {
		add(p)
	}
	for _, p := range filepath.SplitList(os.Getenv(EnvTemplatePath)) {
		add(p)
	}
	for _, p := range c.TemplatePaths {
		add(p)
	}
	add(filepath.Join(c.Root, TemplatesDir))
	return paths
}

func (c *Config) resolve(p string) string {
	if strings.Contains(p, "://") || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// OutputFormat returns the configured format, defaulting to YAML.
func (c *Config) OutputFormat() document.Format {
	format, err := document.ParseFormat(c.Format)
	if err != nil {
		return document.FormatYAML
	}
	return format
}

// Level returns the configured log level, defaulting to warn.
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel converts a level name. An empty name means warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}
