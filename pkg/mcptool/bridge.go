// Package mcptool bridges MCP (Model Context Protocol) servers into the
// tool registry. Each remote tool is registered as "<server>.<tool>"
// under the configured navigator tag; arguments pass through as JSON and
// text content is extracted from results.
package mcptool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/testzeus/hercules/pkg/agent"
	"github.com/testzeus/hercules/pkg/agent/registry"
	"github.com/testzeus/hercules/pkg/config"
	"github.com/testzeus/hercules/pkg/version"
)

const (
	initTimeout = 30 * time.Second
	callTimeout = 60 * time.Second
)

// Bridge holds the live MCP sessions backing registered tools.
type Bridge struct {
	sessions map[string]*mcpsdk.ClientSession
}

// Connect dials every configured MCP server, lists its tools, and
// registers them into the registry. A server that fails to connect is
// logged and skipped; the engine runs with the servers that came up.
func Connect(ctx context.Context, reg *registry.Registry, servers map[string]config.MCPServerConfig) (*Bridge, error) {
	b := &Bridge{sessions: make(map[string]*mcpsdk.ClientSession)}

	for serverID, cfg := range servers {
		session, err := connectServer(ctx, cfg)
		if err != nil {
			slog.Warn("MCP server failed to connect", "server", serverID, "error", err)
			continue
		}
		b.sessions[serverID] = session

		if err := b.registerServerTools(ctx, reg, serverID, cfg); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func connectServer(ctx context.Context, cfg config.MCPServerConfig) (*mcpsdk.ClientSession, error) {
	transport, err := createTransport(cfg.Transport)
	if err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "hercules",
		Version: version.Version,
	}, nil)
	return client.Connect(initCtx, transport, nil)
}

// createTransport builds the SDK transport from config.
func createTransport(cfg config.MCPTransportConfig) (mcpsdk.Transport, error) {
	switch cfg.Type {
	case config.MCPTransportStdio:
		if cfg.Command == "" {
			return nil, fmt.Errorf("stdio transport requires command")
		}
		cmd := exec.Command(cfg.Command, cfg.Args...)
		cmd.Env = os.Environ()
		return &mcpsdk.CommandTransport{Command: cmd}, nil
	case config.MCPTransportHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("http transport requires url")
		}
		return &mcpsdk.StreamableClientTransport{Endpoint: cfg.URL}, nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", cfg.Type)
	}
}

// remoteTool is one listed server tool, reduced to what registration
// needs.
type remoteTool struct {
	name        string
	description string
	schema      string
}

// registerServerTools lists the server's tools and registers each under
// the server's navigator tag.
func (b *Bridge) registerServerTools(ctx context.Context, reg *registry.Registry, serverID string, cfg config.MCPServerConfig) error {
	session := b.sessions[serverID]

	listCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()
	result, err := session.ListTools(listCtx, nil)
	if err != nil {
		slog.Warn("listing MCP tools failed", "server", serverID, "error", err)
		return nil
	}

	remote := make([]remoteTool, 0, len(result.Tools))
	for _, tool := range result.Tools {
		remote = append(remote, remoteTool{
			name:        tool.Name,
			description: tool.Description,
			schema:      marshalSchema(tool.InputSchema),
		})
	}
	tag := tagFor(cfg.Tag)
	if err := b.addTools(reg, serverID, tag, remote); err != nil {
		return err
	}
	slog.Info("MCP server tools registered", "server", serverID, "count", len(remote), "tag", tag)
	return nil
}

// tagFor maps a server's configured tag to a navigator tag; anything but
// composio lands under mcp.
func tagFor(configured string) agent.Tag {
	if configured == string(agent.TagComposio) {
		return agent.TagComposio
	}
	return agent.TagMCP
}

// marshalSchema serializes a tool's input schema to a JSON string.
func marshalSchema(schema any) string {
	if schema == nil {
		return ""
	}
	data, err := json.Marshal(schema)
	if err != nil {
		slog.Debug("Failed to marshal tool input schema", "error", err)
		return ""
	}
	// A typed nil pointer marshals to "null"; treat it as no schema.
	if string(data) == "null" {
		return ""
	}
	return string(data)
}

// addTools registers listed tools under the tag as "<server>.<tool>".
func (b *Bridge) addTools(reg *registry.Registry, serverID string, tag agent.Tag, tools []remoteTool) error {
	for _, tool := range tools {
		qualified := serverID + "." + tool.name
		def := agent.ToolDefinition{
			Name:             qualified,
			Description:      tool.description,
			ParametersSchema: tool.schema,
		}
		handler := b.handlerFor(serverID, tool.name)

		if err := reg.Register(def, []agent.Tag{tag}, handler); err != nil {
			// Remote schemas are outside our control; fall back to
			// unvalidated registration rather than dropping the tool.
			def.ParametersSchema = ""
			if err := reg.Register(def, []agent.Tag{tag}, handler); err != nil {
				return fmt.Errorf("registering MCP tool %s: %w", qualified, err)
			}
			slog.Warn("MCP tool registered without schema validation", "tool", qualified)
		}
	}
	return nil
}

// handlerFor adapts one remote tool into a registry handler.
func (b *Bridge) handlerFor(serverID, toolName string) registry.Handler {
	return func(ctx context.Context, raw json.RawMessage) (*agent.ToolResult, error) {
		var args map[string]any
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, agent.NewToolError(agent.ErrKindInvalidArguments, "%s.%s: %v", serverID, toolName, err)
		}

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		session := b.sessions[serverID]
		result, err := session.CallTool(callCtx, &mcpsdk.CallToolParams{
			Name:      toolName,
			Arguments: args,
		})
		if err != nil {
			return &agent.ToolResult{
				Name:    serverID + "." + toolName,
				Content: err.Error(),
				IsError: true,
			}, nil
		}

		content := extractText(result)
		return &agent.ToolResult{
			Name:    serverID + "." + toolName,
			Content: content,
			IsError: result.IsError,
		}, nil
	}
}

// extractText concatenates the text parts of a tool result.
func extractText(result *mcpsdk.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		if tc, ok := c.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "(no text content)"
	}
	return strings.Join(parts, "\n")
}

// Close shuts down every live session.
func (b *Bridge) Close() error {
	var firstErr error
	for serverID, session := range b.sessions {
		if err := session.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing MCP session %s: %w", serverID, err)
		}
	}
	return firstErr
}
