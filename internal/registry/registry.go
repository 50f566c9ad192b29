// Package registry holds the static tool table.
//
// Tools are registered once at boot, in a fixed order, and never mutated
// afterwards — the registry is safe for concurrent lookups without locking.
// Each Descriptor carries the declarative field specs that the validator
// interprets; the JSON-schema form advertised on tools/list is derived from
// those same specs, so there is exactly one source of truth per tool.
package registry

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

// Handler generates the tool's text output from validated arguments.
// Handlers that talk to the network absorb failures via an offline fallback
// and still return text; a returned error is treated as an internal fault.
type Handler func(ctx context.Context, args schema.Args) (string, error)

// Descriptor describes one registered tool.
type Descriptor struct {
	Name        string
	Description string
	Fields      []schema.Field
	Handler     Handler
}

// Tool renders the descriptor's discovery form for tools/list responses.
func (d Descriptor) Tool() mcp.Tool {
	properties, required := schemaProperties(d.Fields)
	return mcp.Tool{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: properties,
			Required:   required,
		},
	}
}

func schemaProperties(fields []schema.Field) (map[string]any, []string) {
	properties := make(map[string]any, len(fields))
	var required []string
	for _, f := range fields {
		properties[f.Name] = propertySchema(f)
		if f.Required {
			required = append(required, f.Name)
		}
	}
	return properties, required
}

func propertySchema(f schema.Field) map[string]any {
	prop := map[string]any{"type": string(f.Type)}
	if f.Description != "" {
		prop["description"] = f.Description
	}
	if f.Default != nil {
		prop["default"] = f.Default
	}
	switch f.Type {
	case schema.TypeString:
		if len(f.Enum) > 0 {
			prop["enum"] = f.Enum
		}
	case schema.TypeNumber:
		if f.Min != nil {
			prop["minimum"] = *f.Min
		}
		if f.Max != nil {
			prop["maximum"] = *f.Max
		}
	case schema.TypeStringList:
		prop["items"] = map[string]any{"type": "string"}
	case schema.TypeObject:
		nested, nestedRequired := schemaProperties(f.Fields)
		prop["properties"] = nested
		if len(nestedRequired) > 0 {
			prop["required"] = nestedRequired
		}
	}
	return prop
}

// Registry is the ordered, boot-time tool table.
type Registry struct {
	order  []string
	byName map[string]Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]Descriptor)}
}

// Register adds a tool. Registering an existing name replaces the previous
// entry without changing its position; registration only ever happens from
// the fixed list in internal/server at boot.
func (r *Registry) Register(d Descriptor) {
	if _, exists := r.byName[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.byName[d.Name] = d
}

// Lookup returns the descriptor for name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns every descriptor in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Tools returns the discovery form of every tool in registration order.
func (r *Registry) Tools() []mcp.Tool {
	descriptors := r.All()
	out := make([]mcp.Tool, 0, len(descriptors))
	for _, d := range descriptors {
		out = append(out, d.Tool())
	}
	return out
}
