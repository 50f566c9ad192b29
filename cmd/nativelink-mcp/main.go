// NativeLink MCP server.
//
// Exposes NativeLink build-acceleration tooling (Bazel config generation,
// documentation lookup, performance analysis, deployment manifests, watch
// automation) to AI coding assistants over the Model Context Protocol.
//
// Usage:
//
//	nativelink-mcp serve                          # stdio transport
//	nativelink-mcp serve --transport http --port 8080
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TraceMachina/nativelink-mcp-server/internal/server"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "nativelink-mcp",
	Short:        "NativeLink MCP server",
	Long:         "NativeLink MCP server — build-acceleration tools for AI coding assistants over the Model Context Protocol.",
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = server.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("nativelink-mcp version %s\n", server.Version))

	rootCmd.AddCommand(newServeCmd())
}
