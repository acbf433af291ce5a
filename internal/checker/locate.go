// Package checker runs tsc against a temporary configuration and removes
// that configuration afterward.
package checker

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxUpwardSearchLevels limits how far above the project root node_modules
// is searched for.
const maxUpwardSearchLevels = 10

// Package is the npm package that ships the checker.
const Package = "typescript"

// ExecutableName returns the platform-specific name of the tsc launcher
// that npm installs under node_modules/.bin.
func ExecutableName(goos string) string {
	if goos == "windows" {
		return "tsc.cmd"
	}
	return "tsc"
}

// Locate finds the tsc launcher for the typescript package visible from
// root, following node's node_modules lookup from root upward.
func Locate(root, goos string) (string, error) {
	dir := root
	for i := 0; i < maxUpwardSearchLevels; i++ {
		modules := filepath.Join(dir, "node_modules")
		if _, err := os.Stat(filepath.Join(modules, Package, "package.json")); err == nil {
			return filepath.Join(modules, ".bin", ExecutableName(goos)), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s package not found in node_modules above %s", Package, root)
}
