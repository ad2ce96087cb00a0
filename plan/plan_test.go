package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ToolCalls(t *testing.T) {
	d := Parse(`{"tool_calls": [
		{"name": "echo", "arguments": {"text": "abc"}},
		{"name": "calc", "arguments": {"a": 1, "b": 2.5}}
	]}`)

	require.Len(t, d.ToolCalls, 2)
	assert.Nil(t, d.Final)

	assert.Equal(t, "echo", d.ToolCalls[0].Name)
	assert.Equal(t, "abc", d.ToolCalls[0].Arguments["text"])

	assert.Equal(t, "calc", d.ToolCalls[1].Name)
	assert.Equal(t, float64(1), d.ToolCalls[1].Arguments["a"])
	assert.Equal(t, 2.5, d.ToolCalls[1].Arguments["b"])
}

func TestParse_MissingArgumentsDefaultsToEmpty(t *testing.T) {
	d := Parse(`{"tool_calls": [{"name": "noop"}]}`)
	require.Len(t, d.ToolCalls, 1)
	assert.NotNil(t, d.ToolCalls[0].Arguments)
	assert.Empty(t, d.ToolCalls[0].Arguments)
}

func TestParse_FinalOnly(t *testing.T) {
	d := Parse(`{"tool_calls": [], "final": "done"}`)
	assert.Empty(t, d.ToolCalls)
	require.NotNil(t, d.Final)
	assert.Equal(t, "done", *d.Final)
}

func TestParse_BothFields(t *testing.T) {
	d := Parse(`{"tool_calls": [{"name": "echo", "arguments": {}}], "final": "later"}`)
	assert.Len(t, d.ToolCalls, 1)
	require.NotNil(t, d.Final)
	assert.Equal(t, "later", *d.Final)
}

func TestParse_ToleratesSurroundingWhitespace(t *testing.T) {
	d := Parse("\n  {\"final\": \"ok\"}  \n")
	require.NotNil(t, d.Final)
	assert.Equal(t, "ok", *d.Final)
}

func TestParse_FallbackOnNonJSON(t *testing.T) {
	d := Parse("hello")
	assert.Empty(t, d.ToolCalls)
	assert.Nil(t, d.Final)
}

func TestParse_FallbackOnWrongShape(t *testing.T) {
	cases := map[string]string{
		"bare string root":      `"hello"`,
		"number root":           `42`,
		"array root":            `[{"name": "echo"}]`,
		"tool_calls not array":  `{"tool_calls": {"name": "echo"}}`,
		"entry without name":    `{"tool_calls": [{"arguments": {}}]}`,
		"name not a string":     `{"tool_calls": [{"name": 7}]}`,
		"arguments not object":  `{"tool_calls": [{"name": "echo", "arguments": "abc"}]}`,
		"final not a string":    `{"final": 3.14}`,
		"truncated json object": `{"tool_calls": [{"name": "ec`,
	}
	for label, text := range cases {
		d := Parse(text)
		assert.Empty(t, d.ToolCalls, label)
		assert.Nil(t, d.Final, label)
	}
}

func TestParse_NullFieldsTreatedAsAbsent(t *testing.T) {
	d := Parse(`{"tool_calls": null, "final": null}`)
	assert.Empty(t, d.ToolCalls)
	assert.Nil(t, d.Final)
}

func TestToolInstructions_MentionProtocolKeys(t *testing.T) {
	assert.Contains(t, ToolInstructions, `"tool_calls"`)
	assert.Contains(t, ToolInstructions, `"final"`)
}
