// Package config loads tsc-files' own settings. The command line belongs to
// tsc, so settings come from a project file and the environment instead.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// FileName is the optional settings file looked up in the project root.
	FileName = ".tsc-files.yaml"

	// EnvPrefix prefixes every settings environment variable.
	EnvPrefix = "TSC_FILES_"

	DefaultFormat    = "text"
	DefaultWaitDelay = 5 * time.Second
)

// ValidFormats are the accepted values of format.
var ValidFormats = []string{"text", "json"}

// Config holds tsc-files settings.
type Config struct {
	// Root is the project root: default tsconfig location, typeRoots base and
	// home of the temporary config. Taken from TSC_FILES_ROOT or the working
	// directory, and always absolute.
	Root string `koanf:"-"`

	// Checker is an explicit tsc executable. Empty means locate it under
	// node_modules.
	Checker string `koanf:"checker"`

	Verbose bool   `koanf:"verbose"`
	Format  string `koanf:"format"`

	// WaitDelay bounds how long an interrupted checker may run on.
	WaitDelay time.Duration `koanf:"wait_delay"`

	// FileUsed is the settings file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Load reads settings with precedence env > settings file > defaults.
// The settings file is read from the project root.
func Load(cwd string) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"checker":    "",
		"verbose":    false,
		"format":     DefaultFormat,
		"wait_delay": DefaultWaitDelay.String(),
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	root, err := filepath.Abs(resolvePathRelativeTo(os.Getenv(EnvPrefix+"ROOT"), cwd))
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	// 2. Settings file
	var fileUsed string
	candidate := filepath.Join(root, FileName)
	if _, err := os.Stat(candidate); err == nil {
		if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", candidate, err)
		}
		fileUsed = candidate
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file %s: %w", candidate, err)
	}

	// 3. Environment, e.g. TSC_FILES_WAIT_DELAY -> wait_delay
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.Root = root
	cfg.Checker = resolveExecutable(cfg.Checker, root)
	cfg.FileUsed = fileUsed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks setting values.
func (c *Config) Validate() error {
	if !isValidFormat(c.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if c.WaitDelay < 0 {
		return fmt.Errorf("invalid wait_delay %s: must not be negative", c.WaitDelay)
	}
	info, err := os.Stat(c.Root)
	if err != nil {
		return fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project root %s: not a directory", c.Root)
	}
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// resolveExecutable anchors a checker given as a relative path to root.
// Bare names are left for PATH lookup.
func resolveExecutable(path, root string) string {
	if !strings.ContainsAny(path, `/\`) {
		return path
	}
	return resolvePathRelativeTo(path, root)
}

// resolvePathRelativeTo resolves path against baseDir unless it is absolute.
// An empty path resolves to baseDir.
func resolvePathRelativeTo(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
