package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/littletreezlx/learn-x/internal/engine"
)

// cliResult captures one CLI execution.
type cliResult struct {
	code   int
	stdout string
	stderr string
}

// execute runs the command tree in-process with deterministic IDs.
func execute(t *testing.T, args ...string) cliResult {
	t.Helper()
	return executeWith(t, &RootOptions{}, args...)
}

func executeWith(t *testing.T, opts *RootOptions, args ...string) cliResult {
	t.Helper()
	if opts.ids == nil {
		opts.ids = engine.NewFixedGenerator("inv-1", "inv-2", "inv-3")
	}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), opts, args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// decodeResponse parses a single JSON CLIResponse from stdout.
func decodeResponse(t *testing.T, stdout string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp), "stdout: %s", stdout)
	return resp
}

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// fastListenerConfig shortens the notification delay for real-timer tests.
func fastListenerConfig(t *testing.T, extra string) string {
	t.Helper()
	return writeFile(t, "bridge.yaml", "listener:\n  delay: 10ms\n"+extra)
}
