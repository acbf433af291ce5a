// Package cli provides the tsc-files command.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/tscfiles/internal/checker"
	"github.com/roach88/tscfiles/internal/config"
	"github.com/roach88/tscfiles/internal/pipeline"
)

// RootOptions holds what the command needs from its environment.
type RootOptions struct {
	// WorkDir is the directory arguments are relative to. Defaults to the
	// process working directory.
	WorkDir string

	// Suffixes overrides temporary config naming (for testing).
	Suffixes checker.SuffixGenerator
}

// NewRootCommand creates the tsc-files command.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts == nil {
		opts = &RootOptions{}
	}

	cmd := &cobra.Command{
		Use:   "tsc-files [files...] [tsc flags...]",
		Short: "Type-check only the given TypeScript files",
		Long: `Run tsc on an explicit list of files, typically those staged for commit.

Arguments ending in .ts or .tsx are checked; everything else is passed to tsc
unchanged. A temporary tsconfig.<suffix>.json is written next to the project's
tsconfig.json with "files" set to those sources and "include" emptied, and is
removed once tsc exits. -p/--project selects a different tsconfig to start from.

Settings are read from .tsc-files.yaml in the project root and from
TSC_FILES_* environment variables (ROOT, CHECKER, VERBOSE, FORMAT, WAIT_DELAY).

Example:
  tsc-files --noEmit src/index.ts src/app.tsx
  tsc-files -p tsconfig.build.json $(git diff --cached --name-only)`,
		DisableFlagParsing: true,
		SilenceUsage:       true, // tsc owns the command line; usage would be misleading
		SilenceErrors:      true, // errors are reported by runCheck
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	return cmd
}

// Execute runs the command and returns the process exit status.
func Execute(ctx context.Context) int {
	cmd := NewRootCommand(nil)
	return GetExitCode(cmd.ExecuteContext(ctx))
}

func runCheck(opts *RootOptions, args []string, cmd *cobra.Command) error {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return reportError(&OutputFormatter{Format: config.DefaultFormat, Writer: cmd.ErrOrStderr()},
				ErrCodeSettings, ExitConfigError, "resolving working directory", err)
		}
		workDir = wd
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return reportError(&OutputFormatter{Format: config.DefaultFormat, Writer: cmd.ErrOrStderr()},
			ErrCodeSettings, ExitConfigError, "loading settings", err)
	}

	formatter := &OutputFormatter{
		Format:  cfg.Format,
		Writer:  cmd.ErrOrStderr(),
		Verbose: cfg.Verbose,
	}

	// Configure logging based on verbose setting
	logLevel := slog.LevelInfo
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))
	if cfg.FileUsed != "" {
		logger.Debug("using settings file", "path", cfg.FileUsed)
	}

	// Interrupts cancel the run; tsc is signalled and cleanup still happens.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Debug("received signal, stopping checker", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	outcome, err := pipeline.Run(ctx, pipeline.Options{
		Args:      args,
		WorkDir:   workDir,
		Root:      cfg.Root,
		Checker:   cfg.Checker,
		WaitDelay: cfg.WaitDelay,
		Suffixes:  opts.Suffixes,
		Stdin:     cmd.InOrStdin(),
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		Logger:    logger,
	})
	if err != nil {
		code, status := Classify(err)
		return reportError(formatter, code, status, "type check not run", err)
	}

	if outcome.ExitCode != ExitSuccess {
		return CheckFailed(outcome.ExitCode)
	}
	return nil
}

// reportError prints err and returns it with its exit status attached.
func reportError(f *OutputFormatter, code string, status int, message string, err error) error {
	var details interface{}
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		details = unwrapped.Error()
	}
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(status, message, err)
}
