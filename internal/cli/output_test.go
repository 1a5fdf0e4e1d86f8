package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/littletreezlx/learn-x/internal/engine"
	"github.com/littletreezlx/learn-x/internal/ir"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONErrorStaysOnWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "json",
		Writer:    buf,
		ErrWriter: errBuf,
	}

	err := formatter.Error(ErrCodeMethodNotFound, "method not found: x", map[string]string{"kind": "METHOD_NOT_FOUND"})
	require.NoError(t, err)
	assert.Empty(t, errBuf.String())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E202", resp.Error.Code)
	assert.Equal(t, "method not found: x", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	require.NoError(t, formatter.Success("Hello from Go: Alice [v1.0.0]"))
	assert.Equal(t, "Hello from Go: Alice [v1.0.0]\n", buf.String())
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "text",
		Writer:    buf,
		ErrWriter: errBuf,
	}

	require.NoError(t, formatter.Error("E001", "something failed", map[string]string{"k": "v"}))
	assert.Empty(t, buf.String())
	assert.Equal(t, "Error [E001]: something failed\n", errBuf.String(), "details only in verbose mode")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error("E001", "something failed", map[string]string{"file": "x.cue"}))
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_Fail(t *testing.T) {
	errBuf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: errBuf}

	err := formatter.Fail(ExitCommandError, ErrCodeUsage, "usage: bridge invoke", nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "E002: usage: bridge invoke", err.Error())
	assert.Equal(t, "Error [E002]: usage: bridge invoke\n", errBuf.String())
}

func TestOutputFormatter_FailWith(t *testing.T) {
	errBuf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: errBuf}

	usage := engine.NewUsageError("usage: bridge invoke")
	err := formatter.FailWith(ExitCommandError, codeForKind(engine.KindOf(usage)), usage, nil)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, usage)
	assert.True(t, engine.IsUsageError(err))
	assert.Equal(t, "Error [E002]: usage: bridge invoke\n", errBuf.String(), "engine errors print their message only")

	errBuf.Reset()
	cause := errors.New("open bridge.yaml: no such file or directory")
	err = formatter.FailWith(ExitCommandError, ErrCodeUsage, fmt.Errorf("failed to read config file: %w", cause), nil)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error [E002]: failed to read config file: open bridge.yaml: no such file or directory\n", errBuf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("invoking %s", "ns.m")

			assert.Empty(t, buf.String(), "verbose output must not corrupt JSON")
			if tt.wantLog {
				assert.Equal(t, "invoking ns.m\n", errBuf.String())
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestExitError(t *testing.T) {
	plain := NewExitError(ExitFailure, "failed")
	assert.Equal(t, "failed", plain.Error())
	assert.Nil(t, plain.Unwrap())

	cause := errors.New("disk full")
	wrapped := WrapExitError(ExitCommandError, "write failed", cause)
	assert.Equal(t, "write failed: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", wrapped)))
	assert.Equal(t, ExitCommandError, GetExitCode(engine.NewUsageError("usage: bridge list")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestCodeForKind(t *testing.T) {
	tests := []struct {
		kind ir.ErrorKind
		code string
	}{
		{ir.ErrUsage, "E002"},
		{ir.ErrClassNotFound, "E201"},
		{ir.ErrMethodNotFound, "E202"},
		{ir.ErrBadArgument, "E203"},
		{ir.ErrExecution, "E204"},
		{ir.ErrorKind("SOMETHING_ELSE"), "E001"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.code, codeForKind(tt.kind))
		})
	}
}
