// Package dispatch resolves tool calls into result envelopes.
//
// The Dispatcher is the single failure boundary for tool execution: every
// outcome — unknown tool, invalid arguments, handler panic, success — is
// converted into either a CallToolResult or a protocol Error. Nothing
// escapes to the transport loops. The dispatcher itself performs no I/O;
// any network traffic belongs to the handlers, which absorb their own
// failures (see internal/nativelink).
package dispatch

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

// Error is a tool-level failure with a stable JSON-RPC error code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Dispatcher routes tool calls through the registry and validator.
type Dispatcher struct {
	reg *registry.Registry
	log *log.Logger
}

// New creates a Dispatcher over the given registry.
func New(reg *registry.Registry, logger *log.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, log: logger}
}

// Dispatch looks up name, validates raw against its schema, and invokes the
// handler. Exactly one of the return values is non-nil.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) (result *mcp.CallToolResult, derr *Error) {
	desc, ok := d.reg.Lookup(name)
	if !ok {
		return nil, &Error{
			Code:    mcp.METHOD_NOT_FOUND,
			Message: fmt.Sprintf("tool not found: %s", name),
		}
	}

	validated, validationErr := schema.Validate(desc.Fields, raw)
	if validationErr != nil {
		return nil, &Error{
			Code:    mcp.INVALID_PARAMS,
			Message: fmt.Sprintf("invalid arguments for %s: %s", name, validationErr.Error()),
		}
	}

	// A panicking handler must never take down a transport loop.
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("tool handler panicked", "tool", name, "panic", r)
			result = nil
			derr = &Error{
				Code:    mcp.INTERNAL_ERROR,
				Message: fmt.Sprintf("internal error in %s: %v", name, r),
			}
		}
	}()

	text, err := desc.Handler(ctx, validated)
	if err != nil {
		d.log.Error("tool handler failed", "tool", name, "error", err)
		return nil, &Error{
			Code:    mcp.INTERNAL_ERROR,
			Message: fmt.Sprintf("internal error in %s: %v", name, err),
		}
	}

	return mcp.NewToolResultText(text), nil
}
