package tools

import (
	"context"

	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
	"github.com/TraceMachina/nativelink-mcp-server/internal/templates"
)

// WatchTool generates a watch-and-rebuild script for iterative development.
type WatchTool struct {
	renderer *templates.Renderer
}

// NewWatchTool creates the tool.
func NewWatchTool(renderer *templates.Renderer) *WatchTool {
	return &WatchTool{renderer: renderer}
}

// Descriptor returns the tool's registration entry.
func (t *WatchTool) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: "setup_watch_automation",
		Description: "Generate a file-watch script that rebuilds or retests Bazel targets " +
			"on change, either via ibazel or a portable shell watcher.",
		Fields: []schema.Field{
			{
				Name:        "command",
				Type:        schema.TypeString,
				Description: "What to run on change.",
				Default:     "both",
				Enum:        []string{"build", "test", "both"},
			},
			{
				Name:        "targets",
				Type:        schema.TypeString,
				Description: "Bazel target pattern.",
				Default:     "//...",
			},
			{
				Name:        "watchPaths",
				Type:        schema.TypeStringList,
				Description: "Directories to watch. Defaults to the workspace root.",
			},
			{
				Name:        "excludePaths",
				Type:        schema.TypeStringList,
				Description: "Path patterns to ignore.",
			},
			{
				Name:        "debounceMs",
				Type:        schema.TypeNumber,
				Description: "Quiet period between a change and the rebuild, in milliseconds.",
				Default:     float64(1000),
				Min:         schema.Bound(100),
				Max:         schema.Bound(10000),
			},
			{
				Name:        "useIbazel",
				Type:        schema.TypeBoolean,
				Description: "Use ibazel instead of a generic file watcher.",
				Default:     false,
			},
		},
		Handler: t.handle,
	}
}

func (t *WatchTool) handle(_ context.Context, args schema.Args) (string, error) {
	data := templates.WatchData{
		GeneratedAt:  timestamp(),
		Command:      args.String("command"),
		Targets:      args.String("targets"),
		WatchPaths:   args.StringList("watchPaths"),
		ExcludePaths: args.StringList("excludePaths"),
		DebounceMs:   args.Int("debounceMs"),
	}
	if len(data.WatchPaths) == 0 {
		data.WatchPaths = []string{"."}
	}

	if args.Bool("useIbazel") {
		return t.renderer.Render(templates.IbazelScript, data)
	}
	return t.renderer.Render(templates.WatchScript, data)
}
