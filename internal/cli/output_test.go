package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeConfigRead, "tsconfig.json: no such file", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConfigRead, resp.Error.Code)
	assert.Equal(t, "tsconfig.json: no such file", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeLaunch, "starting tsc", "exec: not found")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "exec: not found", resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeTypeRoots, "reading typeRoot types", "permission denied")
	require.NoError(t, err)
	assert.Equal(t, "tsc-files: error [E004]: reading typeRoot types\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error(ErrCodeTypeRoots, "reading typeRoot types", "permission denied")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[E004]")
	assert.Contains(t, buf.String(), "Details: permission denied")
}

func TestExitError(t *testing.T) {
	err := WrapExitError(ExitConfigError, "loading settings", assert.AnError)
	assert.Equal(t, "loading settings: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	failed := CheckFailed(2)
	assert.Equal(t, 2, failed.Code)
	assert.Equal(t, "type check failed with status 2", failed.Error())
	assert.Nil(t, failed.Unwrap())
}
