package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/memory"
)

// defaultMemoryResults is the retrieve_memory result count when the
// caller does not specify one.
const defaultMemoryResults = 5

// registerMemoryTools exposes memory retrieval to every navigator.
// Similarity search needs the dynamic store; in static mode the tool
// returns the full preloaded memory instead.
func registerMemoryTools(reg *registry.Registry, store memory.Store) error {
	type retrieveArgs struct {
		Query string `json:"query"`
		Count int    `json:"count"`
	}
	return reg.Register(agent.ToolDefinition{
		Name:        "retrieve_memory",
		Description: "Retrieve facts saved in long-term memory relevant to a query.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "What to look up"},
				"count": {"type": "integer", "minimum": 1, "description": "Maximum results; optional"}
			},
			"required": ["query"]
		}`,
	}, agent.KnownTags(), func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args retrieveArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "retrieve_memory: %v", err)
		}
		if args.Count <= 0 {
			args.Count = defaultMemoryResults
		}

		dynamic, ok := store.(memory.DynamicStore)
		if !ok {
			ltm, err := store.GetUserLTM(ctx)
			if err != nil {
				return errorResult("retrieve_memory", err), nil
			}
			if ltm == "" {
				return textResult("retrieve_memory", "No memory is available."), nil
			}
			return textResult("retrieve_memory", truncate(ltm)), nil
		}

		facts, err := dynamic.Query(ctx, args.Query, args.Count)
		if err != nil {
			return errorResult("retrieve_memory", err), nil
		}
		if len(facts) == 0 {
			return textResult("retrieve_memory", "No matching facts in memory."), nil
		}
		var sb strings.Builder
		for i, fact := range facts {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, fact)
		}
		return textResult("retrieve_memory", truncate(strings.TrimSpace(sb.String()))), nil
	})
}
