package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	cwd := t.TempDir()

	cfg, err := Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, cwd, cfg.Root)
	assert.Empty(t, cfg.Checker)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultWaitDelay, cfg.WaitDelay)
	assert.Empty(t, cfg.FileUsed)
}

func TestLoadSettingsFile(t *testing.T) {
	cwd := t.TempDir()
	writeSettings(t, cwd, `
checker: tools/tsc
verbose: true
format: json
wait_delay: 250ms
`)

	cfg, err := Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "tools", "tsc"), cfg.Checker)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 250*time.Millisecond, cfg.WaitDelay)
	assert.Equal(t, filepath.Join(cwd, FileName), cfg.FileUsed)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	writeSettings(t, cwd, "format: json\nverbose: false\n")

	t.Setenv("TSC_FILES_FORMAT", "text")
	t.Setenv("TSC_FILES_VERBOSE", "true")
	t.Setenv("TSC_FILES_CHECKER", "tsc")

	cfg, err := Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Verbose)
	// Bare names are left for PATH lookup.
	assert.Equal(t, "tsc", cfg.Checker)
}

func TestLoadRootFromEnv(t *testing.T) {
	cwd := t.TempDir()
	project := filepath.Join(cwd, "packages", "web")
	require.NoError(t, os.MkdirAll(project, 0755))
	writeSettings(t, project, "verbose: true\n")

	t.Setenv("TSC_FILES_ROOT", filepath.Join("packages", "web"))

	cfg, err := Load(cwd)
	require.NoError(t, err)

	assert.Equal(t, project, cfg.Root)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(project, FileName), cfg.FileUsed)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings string
		env      map[string]string
		wantErr  string
	}{
		{
			name:     "bad format",
			settings: "format: xml\n",
			wantErr:  "invalid format",
		},
		{
			name:    "bad wait delay",
			env:     map[string]string{"TSC_FILES_WAIT_DELAY": "soon"},
			wantErr: "decode",
		},
		{
			name:    "negative wait delay",
			env:     map[string]string{"TSC_FILES_WAIT_DELAY": "-1s"},
			wantErr: "wait_delay",
		},
		{
			name:     "malformed file",
			settings: "format: [unterminated\n",
			wantErr:  "error reading config file",
		},
		{
			name:    "missing root",
			env:     map[string]string{"TSC_FILES_ROOT": "nowhere"},
			wantErr: "project root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cwd := t.TempDir()
			if tt.settings != "" {
				writeSettings(t, cwd, tt.settings)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(cwd)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}
