package transport

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/TraceMachina/nativelink-mcp-server/internal/dispatch"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/rpc"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

// testRPCHandler builds a handler over a minimal tool set shared by the
// stdio and HTTP binding tests.
func testRPCHandler(t *testing.T) *rpc.Handler {
	t.Helper()

	reg := registry.New()
	reg.Register(registry.Descriptor{
		Name:        "shout",
		Description: "Uppercase-ish echo",
		Fields: []schema.Field{
			{Name: "text", Type: schema.TypeString, Required: true},
		},
		Handler: func(_ context.Context, args schema.Args) (string, error) {
			return args.String("text") + "!", nil
		},
	})

	logger := log.New(io.Discard)
	return rpc.NewHandler(dispatch.New(reg, logger), reg, "test-server", "0.0.1", logger)
}

func discardLogger() *log.Logger { return log.New(io.Discard) }
