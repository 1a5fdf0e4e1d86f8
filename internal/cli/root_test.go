package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "bridge", cmd.Use)
	assert.Contains(t, cmd.Long, "string arguments")
	assert.Contains(t, cmd.Version, "com.example.HelloWorld v1.0.0")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"invoke", "callback", "listen", "list", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestListenCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listenCmd, _, err := cmd.Find([]string{"listen"})
	require.NoError(t, err)

	delayFlag := listenCmd.Flags().Lookup("delay")
	require.NotNil(t, delayFlag)
	assert.Equal(t, "0s", delayFlag.DefValue)

	waitFlag := listenCmd.Flags().Lookup("wait")
	require.NotNil(t, waitFlag)
	assert.Equal(t, "true", waitFlag.DefValue)
}

func TestFormatValidationIntegration(t *testing.T) {
	res := execute(t, "--format", "xml", "list")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, `Error [E002]: invalid format "xml"`)
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	res := execute(t, "frobnicate")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]: unknown command")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	res := execute(t, "list", "--bogus")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]: unknown flag: --bogus")
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "bridge.yaml", "format: json\n")

	res := execute(t, "--config", cfg, "invoke", helloNS, "getVersion")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "ok", decodeResponse(t, res.stdout).Status)
}

func TestConfigFile_FlagOverrides(t *testing.T) {
	cfg := writeFile(t, "bridge.yaml", "format: json\n")

	res := execute(t, "--config", cfg, "--format", "text", "invoke", helloNS, "getVersion")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "1.0.0\n", res.stdout)
}

func TestConfigFile_Invalid(t *testing.T) {
	cfg := writeFile(t, "bridge.yaml", "fromat: json\n")

	res := execute(t, "--config", cfg, "list")
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]: failed to parse YAML")
}

func TestConfigFile_FormatAppliesToUsageErrors(t *testing.T) {
	cfg := writeFile(t, "bridge.yaml", "format: json\n")

	res := execute(t, "--config", cfg, "invoke", helloNS)

	assert.Equal(t, ExitCommandError, res.code)
	assert.Empty(t, res.stderr)
	resp := decodeResponse(t, res.stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUsage, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "usage: bridge invoke <namespace> <method>")
}

func TestConfigFile_InvalidBeforeUsageError(t *testing.T) {
	cfg := writeFile(t, "bridge.yaml", "format: xml\n")

	res := execute(t, "--config", cfg, "invoke")

	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, `Error [E002]: invalid config: format "xml" must be one of`)
	assert.NotContains(t, res.stderr, "usage:")
}

func TestRun(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"invoke", helloNS, "getVersion"}, &stdout, &stderr)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1.0.0\n", stdout.String())
	assert.Empty(t, stderr.String())
}
