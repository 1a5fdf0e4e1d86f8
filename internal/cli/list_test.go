package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Golden(t *testing.T) {
	res := execute(t, "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "list", []byte(res.stdout))
}

func TestList_JSON(t *testing.T) {
	res := execute(t, "--format", "json", "list")
	require.Equal(t, ExitSuccess, res.code, res.stderr)

	listing, ok := decodeResponse(t, res.stdout).Data.([]any)
	require.True(t, ok)
	require.Len(t, listing, 2)

	hello := listing[1].(map[string]any)
	assert.Equal(t, helloNS, hello["namespace"])

	methods := hello["methods"].([]any)
	require.Len(t, methods, 5)

	processData := methods[4].(map[string]any)
	assert.Equal(t, "processData", processData["name"])
	assert.Equal(t, []any{"int", "string"}, processData["params"])
	assert.Equal(t, "value", processData["returns"])

	getVersion := methods[1].(map[string]any)
	assert.Equal(t, []any{}, getVersion["params"])

	listener := methods[3].(map[string]any)
	assert.Equal(t, "void", listener["returns"])
}
