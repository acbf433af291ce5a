// Package args splits a tsc-files command line into source files, the
// project override and the flags forwarded to the checker.
package args

import "strings"

// SourceExtensions are the suffixes that mark an argument as a source file.
var SourceExtensions = []string{".ts", ".tsx"}

// ProjectFlags name the config override. They are consumed, never forwarded.
var ProjectFlags = []string{"-p", "--project"}

// Partition is the result of splitting an argument list.
type Partition struct {
	// SourceFiles holds the .ts/.tsx arguments in their original order.
	SourceFiles []string

	// Project is the value that followed the first project flag.
	// Only meaningful when HasProject is true.
	Project    string
	HasProject bool

	// Forwarded holds everything else, in order.
	Forwarded []string
}

// Split partitions args. It never mutates its input.
//
// When a project flag is the last argument it has no value: HasProject stays
// false and the flag is left in Forwarded for the checker to reject.
func Split(args []string) Partition {
	var p Partition

	flagIdx := projectFlagIndex(args)
	valueIdx := -1
	if flagIdx != -1 && flagIdx+1 < len(args) {
		valueIdx = flagIdx + 1
		p.Project = args[valueIdx]
		p.HasProject = true
	}

	for i, arg := range args {
		switch {
		case p.HasProject && (i == flagIdx || i == valueIdx):
			continue
		case IsSourceFile(arg):
			p.SourceFiles = append(p.SourceFiles, arg)
		default:
			p.Forwarded = append(p.Forwarded, arg)
		}
	}

	return p
}

// IsSourceFile reports whether path ends in a TypeScript extension.
// The match is a case-sensitive suffix check, not path validation.
func IsSourceFile(path string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// projectFlagIndex returns the index of the first project flag, or -1.
func projectFlagIndex(args []string) int {
	for i, arg := range args {
		for _, flag := range ProjectFlags {
			if arg == flag {
				return i
			}
		}
	}
	return -1
}
