package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	// tempPrefix and tempExt frame the suffix: tsconfig.<suffix>.json.
	tempPrefix = "tsconfig."
	tempExt    = ".json"

	// buildInfoExt replaces tempExt for the incremental build-info sibling.
	buildInfoExt = ".tsbuildinfo"

	// maxSuffixAttempts bounds retries when a suffix is already taken.
	maxSuffixAttempts = 5

	// DefaultWaitDelay is how long an interrupted checker may take to exit
	// before it is killed.
	DefaultWaitDelay = 5 * time.Second

	// ExitInterrupted is reported when the checker was ended by a signal.
	ExitInterrupted = 130
)

// WriteError reports a failure to create the temporary configuration.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing temporary config %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// LaunchError reports that the checker could not be located or started.
type LaunchError struct {
	Executable string
	Err        error
}

func (e *LaunchError) Error() string {
	if e.Executable == "" {
		return fmt.Sprintf("locating checker: %v", e.Err)
	}
	return fmt.Sprintf("launching checker %s: %v", e.Executable, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one checker run.
type Result struct {
	// ConfigPath is the temporary config the checker was pointed at.
	ConfigPath string
	// ExitCode is the checker's status. Only meaningful when Err is nil.
	ExitCode int
	// Err is a *LaunchError when the checker never ran.
	Err error
	// CleanupErr holds failures removing temporary files. It never replaces
	// ExitCode or Err.
	CleanupErr error
}

// Invoker writes a temporary config into Root and runs tsc against it.
type Invoker struct {
	Root string
	// WorkDir is the checker's working directory. Empty inherits ours.
	WorkDir string

	// Checker overrides the located executable when set.
	Checker string
	// GOOS selects the executable name; defaults to runtime.GOOS.
	GOOS string

	// Suffixes defaults to RandomSuffix.
	Suffixes SuffixGenerator

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// WaitDelay defaults to DefaultWaitDelay.
	WaitDelay time.Duration

	Logger *slog.Logger
}

// Run writes config, runs the checker with -p <tmp> followed by forwarded,
// waits for it, and removes the temporary files.
//
// The returned error is non-nil only when the temporary config could not be
// written. Launch failures are reported in Result.Err after cleanup.
func (inv *Invoker) Run(ctx context.Context, config []byte, forwarded []string) (*Result, error) {
	logger := inv.logger()

	path, err := inv.writeTemp(config)
	if err != nil {
		return nil, err
	}
	logger.Debug("wrote temporary config", "path", path, "bytes", len(config))

	result := &Result{ConfigPath: path}
	result.ExitCode, result.Err = inv.launch(ctx, path, forwarded)

	if err := Cleanup(path); err != nil {
		logger.Warn("cleanup failed", "path", path, "error", err)
		result.CleanupErr = err
	} else {
		logger.Debug("removed temporary config", "path", path)
	}

	return result, nil
}

func (inv *Invoker) launch(ctx context.Context, configPath string, forwarded []string) (int, error) {
	logger := inv.logger()

	bin, err := inv.executable()
	if err != nil {
		return 0, &LaunchError{Err: err}
	}

	argv := append([]string{"-p", configPath}, forwarded...)
	logger.Debug("running checker", "executable", bin, "args", strings.Join(argv, " "))

	cmd := exec.CommandContext(ctx, bin, argv...)
	cmd.Dir = inv.WorkDir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if inv.Stdin != nil {
		cmd.Stdin = inv.Stdin
	}
	if inv.Stdout != nil {
		cmd.Stdout = inv.Stdout
	}
	if inv.Stderr != nil {
		cmd.Stderr = inv.Stderr
	}
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = inv.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	err = cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitCode(exitErr.ProcessState), nil
	case cmd.ProcessState != nil:
		// The checker ran; err only reports how it was cancelled.
		logger.Debug("checker cancelled", "error", err)
		return exitCode(cmd.ProcessState), nil
	default:
		return 0, &LaunchError{Executable: bin, Err: err}
	}
}

func exitCode(state *os.ProcessState) int {
	if code := state.ExitCode(); code >= 0 {
		return code
	}
	return ExitInterrupted
}

func (inv *Invoker) executable() (string, error) {
	if inv.Checker != "" {
		return inv.Checker, nil
	}
	goos := inv.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	return Locate(inv.Root, goos)
}

// writeTemp creates tsconfig.<suffix>.json in Root exclusively, retrying with
// a fresh suffix if the name is taken.
func (inv *Invoker) writeTemp(config []byte) (string, error) {
	suffixes := inv.Suffixes
	if suffixes == nil {
		suffixes = RandomSuffix{}
	}

	var path string
	for attempt := 0; attempt < maxSuffixAttempts; attempt++ {
		path = TempPath(inv.Root, suffixes.Generate())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", &WriteError{Path: path, Err: err}
		}

		_, writeErr := f.Write(config)
		closeErr := f.Close()
		if err := errors.Join(writeErr, closeErr); err != nil {
			_ = os.Remove(path)
			return "", &WriteError{Path: path, Err: err}
		}
		return path, nil
	}
	return "", &WriteError{Path: path, Err: fmt.Errorf("no free name after %d attempts: %w", maxSuffixAttempts, fs.ErrExist)}
}

// TempPath returns the temporary config path for suffix under root.
func TempPath(root, suffix string) string {
	return filepath.Join(root, tempPrefix+suffix+tempExt)
}

// BuildInfoPath returns the incremental build-info file tsc writes next to
// the config at configPath.
func BuildInfoPath(configPath string) string {
	return strings.TrimSuffix(configPath, tempExt) + buildInfoExt
}

// Cleanup removes the temporary config and its build-info sibling, if any.
func Cleanup(configPath string) error {
	var errs []error
	if err := os.Remove(configPath); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(BuildInfoPath(configPath)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (inv *Invoker) logger() *slog.Logger {
	if inv.Logger != nil {
		return inv.Logger
	}
	return slog.Default()
}
