package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
)

// SetupProject creates a temporary project root holding tsconfig.json with
// the given content and a src/ directory with a.ts and b.tsx.
func SetupProject(t *testing.T, tsconfig string) string {
	t.Helper()

	root := t.TempDir()
	WriteFile(t, filepath.Join(root, "tsconfig.json"), tsconfig)
	WriteFile(t, filepath.Join(root, "src", "a.ts"), "export const a: number = 1;\n")
	WriteFile(t, filepath.Join(root, "src", "b.tsx"), "export const b = <div />;\n")
	return root
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ListDir returns the sorted names in dir.
func ListDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// FakeTSCOptions controls the behaviour of a fake checker.
type FakeTSCOptions struct {
	// ExitCode is the status the fake exits with.
	ExitCode int
	// WriteBuildInfo makes the fake create the .tsbuildinfo sibling of the
	// config it was given, as tsc does for incremental builds.
	WriteBuildInfo bool
	// Block makes the fake sleep after recording until it is signalled.
	Block bool
}

// FakeTSC is a shell script standing in for tsc. Each run records its
// arguments, its working directory, a copy of the config passed with -p and a
// listing of the directory holding that config.
type FakeTSC struct {
	// Path is the executable.
	Path string
	// Dir holds the recordings.
	Dir string
}

// InstallFakeTSC installs a fake typescript package under root/node_modules
// so the launcher resolves to node_modules/.bin/tsc. Skips on Windows.
func InstallFakeTSC(t *testing.T, root string, opts FakeTSCOptions) *FakeTSC {
	t.Helper()

	modules := filepath.Join(root, "node_modules")
	WriteFile(t, filepath.Join(modules, "typescript", "package.json"), `{"name": "typescript", "version": "5.6.3"}`+"\n")
	return writeFakeTSC(t, filepath.Join(modules, ".bin", "tsc"), opts)
}

// NewFakeTSC writes a fake checker outside any node_modules tree, for use as
// an explicit checker path. Skips on Windows.
func NewFakeTSC(t *testing.T, opts FakeTSCOptions) *FakeTSC {
	t.Helper()
	return writeFakeTSC(t, filepath.Join(t.TempDir(), "tsc"), opts)
}

func writeFakeTSC(t *testing.T, path string, opts FakeTSCOptions) *FakeTSC {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tsc is a POSIX shell script")
	}

	dir := t.TempDir()
	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "printf '%%s\\n' \"$@\" > '%s'\n", filepath.Join(dir, "args"))
	fmt.Fprintf(&script, "pwd -P > '%s'\n", filepath.Join(dir, "wd"))
	fmt.Fprintf(&script, "cp \"$2\" '%s'\n", filepath.Join(dir, "config.json"))
	fmt.Fprintf(&script, "ls \"$(dirname \"$2\")\" > '%s'\n", filepath.Join(dir, "listing"))
	if opts.WriteBuildInfo {
		script.WriteString("touch \"${2%.json}.tsbuildinfo\"\n")
	}
	if opts.Block {
		script.WriteString("exec sleep 30\n")
	}
	fmt.Fprintf(&script, "exit %d\n", opts.ExitCode)

	WriteFile(t, path, script.String())
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("failed to make %s executable: %v", path, err)
	}
	return &FakeTSC{Path: path, Dir: dir}
}

// Ran reports whether the fake was invoked.
func (f *FakeTSC) Ran() bool {
	_, err := os.Stat(filepath.Join(f.Dir, "args"))
	return err == nil
}

// Args returns the arguments of the last run.
func (f *FakeTSC) Args(t *testing.T) []string {
	t.Helper()
	return f.lines(t, "args")
}

// WorkDir returns the physical working directory of the last run.
func (f *FakeTSC) WorkDir(t *testing.T) string {
	t.Helper()
	return f.lines(t, "wd")[0]
}

// Listing returns the names in the config directory during the last run.
func (f *FakeTSC) Listing(t *testing.T) []string {
	t.Helper()
	return f.lines(t, "listing")
}

// Config returns the config the last run was pointed at.
func (f *FakeTSC) Config(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Dir, "config.json"))
	if err != nil {
		t.Fatalf("fake tsc recorded no config: %v", err)
	}
	return data
}

func (f *FakeTSC) lines(t *testing.T, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		t.Fatalf("fake tsc recorded no %s: %v", name, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
