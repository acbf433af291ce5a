// Package pipeline runs one tsc-files invocation: partition the arguments,
// derive a temporary tsconfig, run the checker and clean up.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/roach88/tscfiles/internal/args"
	"github.com/roach88/tscfiles/internal/checker"
	"github.com/roach88/tscfiles/internal/tsconfig"
)

// Options configures a run.
type Options struct {
	// Args is the raw command line, without the program name.
	Args []string

	// WorkDir is the directory the arguments are relative to.
	WorkDir string
	// Root is the project root. Defaults to WorkDir.
	Root string

	// Checker overrides tsc discovery when set.
	Checker   string
	WaitDelay time.Duration
	Suffixes  checker.SuffixGenerator

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Outcome describes a completed run.
type Outcome struct {
	// Skipped is true when no TypeScript files were given.
	Skipped bool
	// ConfigPath is the real tsconfig that was read.
	ConfigPath string
	// Files is the explicit file list handed to the checker.
	Files []string
	// Forwarded are the arguments passed through to the checker.
	Forwarded []string
	// ExitCode is the checker's status, or 0 when Skipped.
	ExitCode int
	// CleanupErr reports temporary files that could not be removed.
	CleanupErr error
}

// Run executes the pipeline.
//
// A non-nil error is a *tsconfig.LoadError, *checker.WriteError or
// *checker.LaunchError. Launch errors are returned only after the temporary
// config has been removed; the Outcome is still populated in that case.
func Run(ctx context.Context, opts Options) (*Outcome, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := opts.Root
	if root == "" {
		root = opts.WorkDir
	}

	part := args.Split(opts.Args)
	if len(part.SourceFiles) == 0 {
		logger.Debug("no TypeScript files given, skipping type check")
		return &Outcome{Skipped: true}, nil
	}

	override := ""
	if part.HasProject {
		override = resolve(part.Project, opts.WorkDir)
	}
	configPath := tsconfig.Resolve(root, override)
	outcome := &Outcome{ConfigPath: configPath, Forwarded: part.Forwarded}

	logger.Debug("loading tsconfig", "path", configPath)
	cfg, err := tsconfig.Load(configPath)
	if err != nil {
		return outcome, err
	}

	sources := part.SourceFiles
	if root != opts.WorkDir {
		sources = anchor(sources, opts.WorkDir)
	}
	files, err := tsconfig.SelectFiles(cfg, root, sources)
	if err != nil {
		return outcome, err
	}
	outcome.Files = files
	logger.Debug("selected files", "sources", len(part.SourceFiles), "total", len(files))

	derived, err := tsconfig.Derive(cfg, files)
	if err != nil {
		return outcome, err
	}

	inv := &checker.Invoker{
		Root:      root,
		WorkDir:   opts.WorkDir,
		Checker:   opts.Checker,
		Suffixes:  opts.Suffixes,
		Stdin:     opts.Stdin,
		Stdout:    opts.Stdout,
		Stderr:    opts.Stderr,
		WaitDelay: opts.WaitDelay,
		Logger:    logger,
	}
	result, err := inv.Run(ctx, derived.Data, part.Forwarded)
	if err != nil {
		return outcome, err
	}
	outcome.CleanupErr = result.CleanupErr
	if result.Err != nil {
		return outcome, result.Err
	}

	outcome.ExitCode = result.ExitCode
	logger.Debug("checker finished", "exit_code", result.ExitCode)
	return outcome, nil
}

// anchor makes relative paths absolute against dir, so they survive being
// read from a config that lives elsewhere.
func anchor(paths []string, dir string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolve(p, dir)
	}
	return out
}

func resolve(path, dir string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
