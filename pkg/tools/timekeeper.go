package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
)

// maxWait caps a single wait_for call so a misjudged step cannot stall a
// session indefinitely.
const maxWait = 5 * time.Minute

func registerTimeTools(reg *registry.Registry) error {
	visibility := []agent.Tag{agent.TagTimeKeeper}

	type waitArgs struct {
		Seconds float64 `json:"seconds"`
	}
	err := reg.Register(agent.ToolDefinition{
		Name:        "wait_for",
		Description: "Pause for the given number of seconds before the next step.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"seconds": {"type": "number", "minimum": 0, "description": "Seconds to wait"}},
			"required": ["seconds"]
		}`,
	}, visibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args waitArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "wait_for: %v", err)
		}
		d := time.Duration(args.Seconds * float64(time.Second))
		if d > maxWait {
			d = maxWait
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
		return textResult("wait_for", fmt.Sprintf("Waited %s.", d)), nil
	})
	if err != nil {
		return err
	}

	return reg.Register(agent.ToolDefinition{
		Name:             "current_time",
		Description:      "Return the current date and time.",
		ParametersSchema: `{"type": "object", "properties": {}}`,
	}, visibility, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		return textResult("current_time", time.Now().Format(time.RFC1123)), nil
	})
}
