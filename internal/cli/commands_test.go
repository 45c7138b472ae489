package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debuger6/trino/internal/ir"
)

// execute runs the CLI with the given args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const bindDoc = `{
	"@type": "bind",
	"values": [
		{"@type": "constant", "value": 1},
		{"@type": "constant", "value": 2}
	],
	"function": {"@type": "reference", "name": "f"}
}`

func TestPrintCommand(t *testing.T) {
	path := writeFixture(t, "bind.json", bindDoc)

	out, err := execute(t, "print", path)
	require.NoError(t, err)
	assert.Equal(t, "Bind(f, 1, 2)\n", out)
}

func TestPrintCommandJSONFormat(t *testing.T) {
	path := writeFixture(t, "bind.json", bindDoc)

	out, err := execute(t, "--format", "json", "print", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Rendering string `json:"rendering"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "Bind(f, 1, 2)", resp.Data.Rendering)
}

func TestPrintCommandLoadErrorJSON(t *testing.T) {
	path := writeFixture(t, "bad.json", `{"@type": "mystery"}`)

	out, err := execute(t, "--format", "json", "print", path)
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)
}

func TestHashCommand(t *testing.T) {
	path := writeFixture(t, "bind.json", bindDoc)

	out, err := execute(t, "hash", path)
	require.NoError(t, err)

	want := ir.MustFingerprint(ir.MustBind(
		ir.MustReference("f"),
		ir.MustConstant(ir.Int(1)),
		ir.MustConstant(ir.Int(2)),
	))
	assert.Equal(t, want+"\n", out)
}

func TestHashCommandStableAcrossFormats(t *testing.T) {
	jsonPath := writeFixture(t, "bind.json", bindDoc)
	yamlPath := writeFixture(t, "bind.yaml", `
"@type": bind
values:
  - "@type": constant
    value: 1
  - "@type": constant
    value: 2
function:
  "@type": reference
  name: f
`)

	fromJSON, err := execute(t, "hash", jsonPath)
	require.NoError(t, err)
	fromYAML, err := execute(t, "hash", yamlPath)
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromYAML)
}

func TestDesugarCommand(t *testing.T) {
	// add(c, x) inside a lambda over x captures c.
	path := writeFixture(t, "capture.json", `{
		"@type": "lambda",
		"parameters": ["x"],
		"body": {
			"@type": "call",
			"function": "add",
			"args": [
				{"@type": "reference", "name": "c"},
				{"@type": "reference", "name": "x"}
			]
		}
	}`)

	out, err := execute(t, "desugar", path)
	require.NoError(t, err)
	assert.Equal(t, "Bind((c, x) -> add(c, x), c)\n", out)
}

func TestDesugarCommandNoCaptures(t *testing.T) {
	path := writeFixture(t, "plain.json", bindDoc)

	out, err := execute(t, "desugar", path)
	require.NoError(t, err)
	assert.Equal(t, "Bind(f, 1, 2)\n", out)
}

func TestSQLCommand(t *testing.T) {
	path := writeFixture(t, "pred.json", `{
		"@type": "comparison",
		"op": "=",
		"left": {"@type": "reference", "name": "status"},
		"right": {"@type": "constant", "value": "active"}
	}`)

	out, err := execute(t, "--format", "json", "sql", path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			SQL    string `json:"sql"`
			Params []any  `json:"params"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, `("status" = ?)`, resp.Data.SQL)
	assert.Equal(t, []any{"active"}, resp.Data.Params)
}

func TestSQLCommandUnsupported(t *testing.T) {
	path := writeFixture(t, "bind.json", bindDoc)

	out, err := execute(t, "--format", "json", "sql", path)
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E006", resp.Error.Code)
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	path := writeFixture(t, "bind.json", bindDoc)

	_, err := execute(t, "--format", "xml", "print", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
