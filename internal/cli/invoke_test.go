package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloNS = "com.example.HelloWorld"

func TestInvoke_PrintsValue(t *testing.T) {
	res := execute(t, "invoke", helloNS, "sayHello", "Alice")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "Hello from Go: Alice [v1.0.0]\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestInvoke_ProcessData(t *testing.T) {
	res := execute(t, "invoke", helloNS, "processData", "15", "active")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Minor")
	assert.Contains(t, res.stdout, "ACTIVE")

	res = execute(t, "invoke", helloNS, "processData", "45", "inactive")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Adult")
	assert.Contains(t, res.stdout, "INACTIVE")
}

func TestInvoke_VoidPrintsNothing(t *testing.T) {
	res := execute(t, "invoke", helloNS, "sayHelloWithCallback", "Bob")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Empty(t, res.stdout)
	assert.Empty(t, res.stderr)
}

func TestInvoke_NegativeNumbersAreArguments(t *testing.T) {
	res := execute(t, "invoke", "com.example.Calculator", "add", "-5", "3")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "-2\n", res.stdout)
}

func TestInvoke_Failures(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{
			name:   "class not found",
			args:   []string{"com.example.Nope", "sayHello", "x"},
			stderr: "Error [E201]: class not found: com.example.Nope\n",
		},
		{
			name:   "method not found",
			args:   []string{helloNS, "sayGoodbye"},
			stderr: "Error [E202]: method not found: sayGoodbye (namespace com.example.HelloWorld)\n",
		},
		{
			name:   "bad argument",
			args:   []string{helloNS, "processData", "abc", "active"},
			stderr: "Error [E203]: bad argument for com.example.HelloWorld.processData: argument 0: \"abc\" is not a valid int\n",
		},
		{
			name:   "execution error",
			args:   []string{"com.example.Calculator", "divide", "1", "0"},
			stderr: "Error [E204]: com.example.Calculator.divide failed: division by zero\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, append([]string{"invoke"}, tt.args...)...)

			assert.Equal(t, ExitFailure, res.code)
			assert.Empty(t, res.stdout)
			assert.Equal(t, tt.stderr, res.stderr)
		})
	}
}

func TestInvoke_UsageError(t *testing.T) {
	for _, args := range [][]string{
		{"invoke"},
		{"invoke", helloNS},
	} {
		res := execute(t, args...)

		assert.Equal(t, ExitCommandError, res.code, "args %v", args)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "Error [E002]: usage: bridge invoke <namespace> <method>")
	}
}

func TestInvoke_JSONValue(t *testing.T) {
	res := execute(t, "--format", "json", "invoke", helloNS, "getVersion")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	resp := decodeResponse(t, res.stdout)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "inv-1", data["id"])
	assert.Equal(t, "com.example.HelloWorld.getVersion", data["target"])
	assert.Equal(t, "value", data["outcome"])
	assert.Equal(t, "1.0.0", data["value"])
}

func TestInvoke_JSONVoid(t *testing.T) {
	res := execute(t, "--format", "json", "invoke", helloNS, "sayHelloWithCallback", "Bob")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data := decodeResponse(t, res.stdout).Data.(map[string]any)
	assert.Equal(t, "void", data["outcome"])
	assert.Nil(t, data["value"])
}

func TestInvoke_JSONFailure(t *testing.T) {
	res := execute(t, "--format", "json", "invoke", helloNS, "sayGoodbye")
	assert.Equal(t, ExitFailure, res.code)
	assert.Empty(t, res.stderr)

	resp := decodeResponse(t, res.stdout)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMethodNotFound, resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, "METHOD_NOT_FOUND", details["kind"])
	assert.Equal(t, "inv-1", details["id"])
}

func TestInvoke_VerboseLogsToStderr(t *testing.T) {
	res := execute(t, "--verbose", "invoke", helloNS, "getVersion")

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "1.0.0\n", res.stdout)
	assert.Contains(t, res.stderr, "msg=invoking")
	assert.Contains(t, res.stderr, "target=com.example.HelloWorld.getVersion")
}

func TestCallback_Synchronous(t *testing.T) {
	res := execute(t, "callback", helloNS, "sayHelloWithCallback", "Bob")

	assert.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "callback: Callback result: Bob\n", res.stdout)
}

func TestCallback_ValueMethodPrintsValue(t *testing.T) {
	res := execute(t, "callback", helloNS, "sayHello", "Ann")

	assert.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "Hello from Go: Ann [v1.0.0]\n", res.stdout)
}

func TestCallback_WaitsForAsyncNotification(t *testing.T) {
	cfg := fastListenerConfig(t, "")
	res := execute(t, "--config", cfg, "callback", helloNS, "registerSystemListener")

	assert.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "callback: System event triggered!\n", res.stdout)
}

func TestCallback_JSONCollectsMessages(t *testing.T) {
	res := execute(t, "--format", "json", "callback", helloNS, "sayHelloWithCallback", "Bob")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	data := decodeResponse(t, res.stdout).Data.(map[string]any)
	assert.Equal(t, "void", data["outcome"])
	assert.Equal(t, []any{"Callback result: Bob"}, data["callbacks"])
}

func TestCallback_UsageError(t *testing.T) {
	res := execute(t, "callback", helloNS)
	assert.Equal(t, ExitCommandError, res.code)
	assert.Contains(t, res.stderr, "Error [E002]: usage: bridge callback")
}
