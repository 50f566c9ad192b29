// Package server wires all components and creates the server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools that depend on them. No business logic
// lives here — only wiring.
package server

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/TraceMachina/nativelink-mcp-server/internal/config"
	"github.com/TraceMachina/nativelink-mcp-server/internal/dispatch"
	"github.com/TraceMachina/nativelink-mcp-server/internal/nativelink"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/rpc"
	"github.com/TraceMachina/nativelink-mcp-server/internal/templates"
	"github.com/TraceMachina/nativelink-mcp-server/internal/tools"
)

// Name identifies the server in the initialize handshake.
const Name = "nativelink-mcp-server"

// Version is set at build time via ldflags.
var Version = "dev"

// New builds the fully wired message handler: template renderer, outbound
// NativeLink client, the five tools in their fixed registration order, the
// dispatcher, and the protocol handler on top. This is the single place
// where all dependencies are resolved.
func New(cfg config.Config, logger *log.Logger) (*rpc.Handler, error) {
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating template renderer: %w", err)
	}

	client := nativelink.NewClient(cfg, logger)

	reg := registry.New()
	reg.Register(tools.NewBuildConfigTool(renderer, cfg).Descriptor())
	reg.Register(tools.NewDocsTool(client).Descriptor())
	reg.Register(tools.NewPerformanceTool(client).Descriptor())
	reg.Register(tools.NewDeploymentTool(renderer).Descriptor())
	reg.Register(tools.NewWatchTool(renderer).Descriptor())

	d := dispatch.New(reg, logger)
	return rpc.NewHandler(d, reg, Name, Version, logger), nil
}
