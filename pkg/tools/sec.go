package tools

import (
	"context"
	"encoding/json"
	"os/exec"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/config"
)

func registerScanTools(reg *registry.Registry, scanner config.ScannerConfig) error {
	type scanArgs struct {
		Target string   `json:"target"`
		Args   []string `json:"args"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "run_scan",
		Description: "Run the configured security scanner against a target and return its output.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"target": {"type": "string", "description": "Scan target (URL or host)"},
				"args": {"type": "array", "items": {"type": "string"}, "description": "Extra scanner arguments; optional"}
			},
			"required": ["target"]
		}`,
	}, []agent.Tag{agent.TagSec}, func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args scanArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "run_scan: %v", err)
		}

		scanCtx, cancel := context.WithTimeout(ctx, scanner.ScanTimeout())
		defer cancel()

		cmdArgs := append(append([]string(nil), args.Args...), args.Target)
		cmd := exec.CommandContext(scanCtx, scanner.Binary, cmdArgs...)
		output, err := cmd.CombinedOutput()
		if scanCtx.Err() == context.DeadlineExceeded {
			return errorResult("run_scan", scanCtx.Err()), nil
		}
		if err != nil {
			// Scanners commonly exit non-zero when findings exist; the
			// output is still the result.
			if len(output) > 0 {
				return textResult("run_scan", truncate(string(output))), nil
			}
			return errorResult("run_scan", err), nil
		}
		return textResult("run_scan", truncate(string(output))), nil
	})
}
