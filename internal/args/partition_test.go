package args

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		files      []string
		project    string
		hasProject bool
		forwarded  []string
	}{
		{
			name:      "empty",
			args:      nil,
			files:     nil,
			forwarded: nil,
		},
		{
			name:      "no source files",
			args:      []string{"README.md", "--noEmit", "main.go"},
			files:     nil,
			forwarded: []string{"README.md", "--noEmit", "main.go"},
		},
		{
			name:      "ts and tsx keep order",
			args:      []string{"src/b.tsx", "--noEmit", "src/a.ts", "--strict"},
			files:     []string{"src/b.tsx", "src/a.ts"},
			forwarded: []string{"--noEmit", "--strict"},
		},
		{
			name:       "short project flag",
			args:       []string{"a.ts", "-p", "custom.json", "--noEmit"},
			files:      []string{"a.ts"},
			project:    "custom.json",
			hasProject: true,
			forwarded:  []string{"--noEmit"},
		},
		{
			name:       "long project flag before files",
			args:       []string{"--project", "custom.json", "a.ts", "b.ts"},
			files:      []string{"a.ts", "b.ts"},
			project:    "custom.json",
			hasProject: true,
			forwarded:  nil,
		},
		{
			name:      "project flag without value",
			args:      []string{"a.ts", "--noEmit", "-p"},
			files:     []string{"a.ts"},
			forwarded: []string{"--noEmit", "-p"},
		},
		{
			name:       "only first project flag consumed",
			args:       []string{"-p", "one.json", "a.ts", "--project", "two.json"},
			files:      []string{"a.ts"},
			project:    "one.json",
			hasProject: true,
			forwarded:  []string{"--project", "two.json"},
		},
		{
			name:       "project value never a source file",
			args:       []string{"-p", "weird.ts", "a.ts"},
			files:      []string{"a.ts"},
			project:    "weird.ts",
			hasProject: true,
			forwarded:  nil,
		},
		{
			name:      "suffix match is case sensitive",
			args:      []string{"A.TS", "b.Tsx", "c.d.ts"},
			files:     []string{"c.d.ts"},
			forwarded: []string{"A.TS", "b.Tsx"},
		},
		{
			name:      "duplicates preserved",
			args:      []string{"a.ts", "a.ts"},
			files:     []string{"a.ts", "a.ts"},
			forwarded: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Split(tt.args)
			assert.Equal(t, tt.files, p.SourceFiles)
			assert.Equal(t, tt.project, p.Project)
			assert.Equal(t, tt.hasProject, p.HasProject)
			assert.Equal(t, tt.forwarded, p.Forwarded)
		})
	}
}

func TestSplitDoesNotMutateInput(t *testing.T) {
	in := []string{"a.ts", "-p", "x.json", "--noEmit"}
	snapshot := append([]string(nil), in...)

	_ = Split(in)

	assert.Equal(t, snapshot, in)
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("a.ts"))
	assert.True(t, IsSourceFile("dir/a.tsx"))
	assert.True(t, IsSourceFile("types/global.d.ts"))
	assert.False(t, IsSourceFile("a.js"))
	assert.False(t, IsSourceFile("a.ts.map"))
	assert.False(t, IsSourceFile(""))
}
