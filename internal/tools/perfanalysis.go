package tools

import (
	"context"

	"github.com/TraceMachina/nativelink-mcp-server/internal/nativelink"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

// PerformanceTool analyzes build metrics, remotely when the analysis
// endpoint answers and locally otherwise.
type PerformanceTool struct {
	client *nativelink.Client
}

// NewPerformanceTool creates the tool over the shared outbound client.
func NewPerformanceTool(client *nativelink.Client) *PerformanceTool {
	return &PerformanceTool{client: client}
}

// Descriptor returns the tool's registration entry.
func (t *PerformanceTool) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: "analyze_build_performance",
		Description: "Analyze Bazel build performance metrics and recommend NativeLink " +
			"settings. Falls back to a local analysis when the service is unreachable.",
		Fields: []schema.Field{
			{
				Name:        "profileData",
				Type:        schema.TypeString,
				Description: "Raw Bazel profile data (JSON profile or analyze-profile output).",
			},
			{
				Name:        "metrics",
				Type:        schema.TypeObject,
				Description: "Summary build metrics.",
				Fields: []schema.Field{
					{Name: "totalTime", Type: schema.TypeNumber, Description: "Total build time in seconds."},
					{
						Name:        "cacheHitRate",
						Type:        schema.TypeNumber,
						Description: "Remote cache hit rate as a fraction.",
						Min:         schema.Bound(0),
						Max:         schema.Bound(1),
					},
					{Name: "remoteExecutionTime", Type: schema.TypeNumber, Description: "Time spent in remote execution, seconds."},
					{Name: "localExecutionTime", Type: schema.TypeNumber, Description: "Time spent executing locally, seconds."},
					{Name: "networkTransferSize", Type: schema.TypeNumber, Description: "Bytes transferred to and from the remote cache."},
				},
			},
			{
				Name:        "targetOptimization",
				Type:        schema.TypeString,
				Description: "What to optimize recommendations for.",
				Default:     "balanced",
				Enum:        []string{"speed", "cost", "balanced"},
			},
		},
		Handler: t.handle,
	}
}

func (t *PerformanceTool) handle(ctx context.Context, args schema.Args) (string, error) {
	req := nativelink.AnalysisRequest{
		ProfileData:        args.String("profileData"),
		TargetOptimization: args.String("targetOptimization"),
	}
	if metrics := args.Object("metrics"); metrics != nil {
		req.Metrics = &nativelink.Metrics{
			TotalTime:           optionalFloat(metrics, "totalTime"),
			CacheHitRate:        optionalFloat(metrics, "cacheHitRate"),
			RemoteExecutionTime: optionalFloat(metrics, "remoteExecutionTime"),
			LocalExecutionTime:  optionalFloat(metrics, "localExecutionTime"),
			NetworkTransferSize: optionalFloat(metrics, "networkTransferSize"),
		}
	}

	outcome := t.client.AnalyzePerformance(ctx, req)
	return outcome.Text, nil
}

func optionalFloat(args schema.Args, key string) *float64 {
	if !args.Has(key) {
		return nil
	}
	v := args.Float(key)
	return &v
}
