// Package registry implements the process-scoped tool registry: a
// per-navigator-tag ordered mapping of tool descriptors. All registration
// happens at startup, before command dispatch begins; afterwards the
// registry is read-only and safe for concurrent reads.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/testzeus/hercules/pkg/agent"
)

var (
	// ErrDuplicateTool indicates a (tag, name) pair was registered twice.
	ErrDuplicateTool = errors.New("duplicate tool registration")
	// ErrToolNotFound indicates the requested tool is not visible to the tag.
	ErrToolNotFound = errors.New("tool not found")
)

// Handler executes one tool call. args is the raw JSON arguments object,
// already validated against the descriptor's schema when one is declared.
// In-band tool failures return ToolResult{IsError: true}; a *agent.ToolError
// return is reserved for typed faults (fatal errors abort the dialogue).
type Handler func(ctx context.Context, args json.RawMessage) (*agent.ToolResult, error)

// Descriptor is one registry entry: the LLM-visible definition plus the
// handler and visibility set.
type Descriptor struct {
	agent.ToolDefinition
	Visibility []agent.Tag
	Handler    Handler

	schema *jsonschema.Schema
}

// Invoke validates args against the descriptor's schema (when present) and
// runs the handler. Validation failures come back as in-band error results
// so the proposer can self-correct.
func (d *Descriptor) Invoke(ctx context.Context, callID string, args json.RawMessage) (*agent.ToolResult, error) {
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	if d.schema != nil {
		var v any
		if err := json.Unmarshal(args, &v); err != nil {
			return &agent.ToolResult{
				CallID:  callID,
				Name:    d.Name,
				Content: fmt.Sprintf("arguments are not valid JSON: %v", err),
				IsError: true,
			}, nil
		}
		if err := d.schema.Validate(v); err != nil {
			return &agent.ToolResult{
				CallID:  callID,
				Name:    d.Name,
				Content: fmt.Sprintf("arguments failed schema validation: %v", err),
				IsError: true,
			}, nil
		}
	}
	result, err := d.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	if result != nil && result.CallID == "" {
		result.CallID = callID
	}
	return result, nil
}

type tagName struct {
	tag  agent.Tag
	name string
}

// Registry maps navigator tags to ordered tool descriptor lists.
// Mutation is not synchronized: registration must complete before
// dispatch, per the startup contract.
type Registry struct {
	byTag map[agent.Tag][]*Descriptor
	index map[tagName]*Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byTag: make(map[agent.Tag][]*Descriptor),
		index: make(map[tagName]*Descriptor),
	}
}

// Register adds a tool visible to each tag in visibility. The descriptor's
// ParametersSchema, when non-empty, is compiled once here; a malformed
// schema is a registration error (programming bug, not runtime data).
// Fails with ErrDuplicateTool if any (tag, name) pair is already present.
func (r *Registry) Register(def agent.ToolDefinition, visibility []agent.Tag, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if handler == nil {
		return fmt.Errorf("tool %q: handler must not be nil", def.Name)
	}
	if len(visibility) == 0 {
		return fmt.Errorf("tool %q: visibility must name at least one navigator tag", def.Name)
	}
	for _, tag := range visibility {
		if _, exists := r.index[tagName{tag, def.Name}]; exists {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateTool, tag, def.Name)
		}
	}

	d := &Descriptor{
		ToolDefinition: def,
		Visibility:     append([]agent.Tag(nil), visibility...),
		Handler:        handler,
	}
	if def.ParametersSchema != "" {
		schema, err := jsonschema.CompileString(def.Name+".schema.json", def.ParametersSchema)
		if err != nil {
			return fmt.Errorf("tool %q: invalid parameters schema: %w", def.Name, err)
		}
		d.schema = schema
	}

	for _, tag := range visibility {
		r.byTag[tag] = append(r.byTag[tag], d)
		r.index[tagName{tag, def.Name}] = d
	}
	return nil
}

// ListFor returns the descriptors visible to a tag, in registration order.
func (r *Registry) ListFor(tag agent.Tag) []*Descriptor {
	return r.byTag[tag]
}

// Definitions returns the LLM-visible tool definitions for a tag.
func (r *Registry) Definitions(tag agent.Tag) []agent.ToolDefinition {
	descs := r.byTag[tag]
	if len(descs) == 0 {
		return nil
	}
	defs := make([]agent.ToolDefinition, 0, len(descs))
	for _, d := range descs {
		defs = append(defs, d.ToolDefinition)
	}
	return defs
}

// Resolve returns the descriptor for (tag, name), or ErrToolNotFound.
func (r *Registry) Resolve(tag agent.Tag, name string) (*Descriptor, error) {
	d, ok := r.index[tagName{tag, name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrToolNotFound, tag, name)
	}
	return d, nil
}
