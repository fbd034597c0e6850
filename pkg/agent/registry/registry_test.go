package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testzeus/hercules/pkg/agent"
)

func echoHandler(ctx context.Context, args json.RawMessage) (*agent.ToolResult, error) {
	return &agent.ToolResult{Name: "echo", Content: string(args)}, nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	def := agent.ToolDefinition{Name: "echo", Description: "echoes arguments"}
	require.NoError(t, r.Register(def, []agent.Tag{agent.TagAPI}, echoHandler))

	d, err := r.Resolve(agent.TagAPI, "echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", d.Name)

	_, err = r.Resolve(agent.TagSQL, "echo")
	assert.ErrorIs(t, err, ErrToolNotFound)
	_, err = r.Resolve(agent.TagAPI, "missing")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	r := New()
	def := agent.ToolDefinition{Name: "echo"}
	require.NoError(t, r.Register(def, []agent.Tag{agent.TagAPI}, echoHandler))

	err := r.Register(def, []agent.Tag{agent.TagAPI}, echoHandler)
	assert.ErrorIs(t, err, ErrDuplicateTool)

	// Same name under a different tag is fine.
	assert.NoError(t, r.Register(def, []agent.Tag{agent.TagSQL}, echoHandler))
}

func TestDuplicateAcrossSharedVisibility(t *testing.T) {
	r := New()
	def := agent.ToolDefinition{Name: "echo"}
	require.NoError(t, r.Register(def, []agent.Tag{agent.TagAPI, agent.TagSQL}, echoHandler))

	// A second registration overlapping on any tag fails before mutating.
	err := r.Register(def, []agent.Tag{agent.TagBrowser, agent.TagSQL}, echoHandler)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	_, err = r.Resolve(agent.TagBrowser, "echo")
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRegisterValidation(t *testing.T) {
	r := New()
	assert.Error(t, r.Register(agent.ToolDefinition{}, []agent.Tag{agent.TagAPI}, echoHandler))
	assert.Error(t, r.Register(agent.ToolDefinition{Name: "x"}, nil, echoHandler))
	assert.Error(t, r.Register(agent.ToolDefinition{Name: "x"}, []agent.Tag{agent.TagAPI}, nil))
}

func TestRegisterRejectsMalformedSchema(t *testing.T) {
	r := New()
	def := agent.ToolDefinition{Name: "bad", ParametersSchema: `{"type": ["not a valid`}
	assert.Error(t, r.Register(def, []agent.Tag{agent.TagAPI}, echoHandler))
}

func TestDefinitionsPreserveRegistrationOrder(t *testing.T) {
	r := New()
	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, r.Register(agent.ToolDefinition{Name: name}, []agent.Tag{agent.TagAPI}, echoHandler))
	}
	defs := r.Definitions(agent.TagAPI)
	require.Len(t, defs, 3)
	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, "second", defs[1].Name)
	assert.Equal(t, "third", defs[2].Name)

	assert.Nil(t, r.Definitions(agent.TagSec))
}

func TestInvokeValidatesArguments(t *testing.T) {
	r := New()
	def := agent.ToolDefinition{
		Name: "click",
		ParametersSchema: `{
			"type": "object",
			"properties": {"selector": {"type": "string"}},
			"required": ["selector"]
		}`,
	}
	require.NoError(t, r.Register(def, []agent.Tag{agent.TagBrowser}, echoHandler))
	d, err := r.Resolve(agent.TagBrowser, "click")
	require.NoError(t, err)

	// Missing required field: in-band error, handler not run.
	res, err := d.Invoke(context.Background(), "call-1", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "schema validation")

	// Invalid JSON: in-band error.
	res, err = d.Invoke(context.Background(), "call-2", json.RawMessage(`{broken`))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// Valid arguments reach the handler.
	res, err = d.Invoke(context.Background(), "call-3", json.RawMessage(`{"selector": "#go"}`))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "call-3", res.CallID)
}

func TestInvokeDefaultsEmptyArguments(t *testing.T) {
	r := New()
	var got string
	def := agent.ToolDefinition{Name: "noargs"}
	require.NoError(t, r.Register(def, []agent.Tag{agent.TagTimeKeeper},
		func(ctx context.Context, args json.RawMessage) (*agent.ToolResult, error) {
			got = string(args)
			return &agent.ToolResult{Name: "noargs", Content: "ok"}, nil
		}))

	d, err := r.Resolve(agent.TagTimeKeeper, "noargs")
	require.NoError(t, err)
	_, err = d.Invoke(context.Background(), "c", nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
}
