package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
)

// commandTimeout bounds one executor-navigator shell command.
const commandTimeout = 2 * time.Minute

func registerExecutorTools(reg *registry.Registry) error {
	type commandArgs struct {
		Command string `json:"command"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "run_command",
		Description: "Run a non-interactive shell command on the test host and return its combined output.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"command": {"type": "string", "description": "Shell command line to run"}},
			"required": ["command"]
		}`,
	}, []agent.Tag{agent.TagExecutor}, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args commandArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "run_command: %v", err)
		}
		if strings.TrimSpace(args.Command) == "" {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "run_command: command must not be empty")
		}

		cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, "sh", "-c", args.Command)
		output, err := cmd.CombinedOutput()
		if cmdCtx.Err() == context.DeadlineExceeded {
			return errorResult("run_command", fmt.Errorf("command timed out after %s", commandTimeout)), nil
		}
		result := strings.TrimSpace(string(output))
		if err != nil {
			if result == "" {
				result = err.Error()
			} else {
				result = fmt.Sprintf("%s\n(exit error: %v)", result, err)
			}
			return errorResult("run_command", fmt.Errorf("%s", result)), nil
		}
		if result == "" {
			result = "(command produced no output)"
		}
		return textResult("run_command", truncate(result)), nil
	})
}
