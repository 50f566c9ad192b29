package tools

import (
	"context"

	"github.com/TraceMachina/nativelink-mcp-server/internal/nativelink"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

// DocsTool serves NativeLink documentation, online when possible and from
// the embedded offline pages otherwise.
type DocsTool struct {
	client *nativelink.Client
}

// NewDocsTool creates the tool over the shared outbound client.
func NewDocsTool(client *nativelink.Client) *DocsTool {
	return &DocsTool{client: client}
}

// Descriptor returns the tool's registration entry.
func (t *DocsTool) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: "query_nativelink_docs",
		Description: "Query NativeLink documentation by topic. Works offline: when the " +
			"documentation service is unreachable, a bundled copy is returned instead.",
		Fields: []schema.Field{
			{
				Name:        "topic",
				Type:        schema.TypeString,
				Description: "Documentation topic to retrieve.",
				Required:    true,
				Enum:        []string{"setup", "migration", "optimization", "troubleshooting", "api"},
			},
			{
				Name:        "context",
				Type:        schema.TypeString,
				Description: "Free-form context about the project, used to focus the answer.",
			},
			{
				Name:        "maxTokens",
				Type:        schema.TypeNumber,
				Description: "Upper bound on the size of the returned documentation.",
				Default:     float64(5000),
				Min:         schema.Bound(1000),
			},
		},
		Handler: t.handle,
	}
}

func (t *DocsTool) handle(ctx context.Context, args schema.Args) (string, error) {
	outcome := t.client.FetchDocs(ctx, nativelink.DocsRequest{
		Topic:     args.String("topic"),
		Context:   args.String("context"),
		MaxTokens: args.Int("maxTokens"),
	})
	return outcome.Text, nil
}
