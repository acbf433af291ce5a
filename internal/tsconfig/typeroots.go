package tsconfig

import (
	"os"
	"path/filepath"
)

// ExpandTypeRoots lists the immediate entries of each typeRoots directory.
//
// Relative roots resolve against root. Entries come back as full paths in
// directory-listing order and are not recursed into. A root that cannot be
// listed is an error.
func ExpandTypeRoots(root string, typeRoots []string) ([]string, error) {
	var files []string
	for _, typeRoot := range typeRoots {
		dir := resolvePathRelativeTo(typeRoot, root)

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &LoadError{Kind: KindTypeRoots, Path: dir, Err: err}
		}
		for _, entry := range entries {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// SelectFiles returns sourceFiles followed by the expanded typeRoots of cfg.
func SelectFiles(cfg *Config, root string, sourceFiles []string) ([]string, error) {
	opts, err := cfg.CompilerOptions()
	if err != nil {
		return nil, err
	}

	files := append([]string(nil), sourceFiles...)
	if opts.TypeRoots == nil {
		return files, nil
	}

	typings, err := ExpandTypeRoots(root, opts.TypeRoots)
	if err != nil {
		return nil, err
	}
	return append(files, typings...), nil
}

func resolvePathRelativeTo(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
