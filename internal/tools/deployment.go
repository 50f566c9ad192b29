package tools

import (
	"context"
	"fmt"

	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
	"github.com/TraceMachina/nativelink-mcp-server/internal/templates"
)

// scaleProfile fixes the sizing knobs for one deployment scale.
type scaleProfile struct {
	replicas    int
	minReplicas int
	maxReplicas int
	cpu         string
	memory      string
	cpuLimit    string
	memoryLimit string
}

var scaleProfiles = map[string]scaleProfile{
	"small":      {replicas: 1, minReplicas: 1, maxReplicas: 3, cpu: "1", memory: "2Gi", cpuLimit: "2", memoryLimit: "4Gi"},
	"medium":     {replicas: 3, minReplicas: 3, maxReplicas: 12, cpu: "1", memory: "2Gi", cpuLimit: "2", memoryLimit: "4Gi"},
	"large":      {replicas: 10, minReplicas: 10, maxReplicas: 40, cpu: "2", memory: "4Gi", cpuLimit: "4", memoryLimit: "8Gi"},
	"enterprise": {replicas: 25, minReplicas: 25, maxReplicas: 100, cpu: "4", memory: "8Gi", cpuLimit: "8", memoryLimit: "16Gi"},
}

var platformTemplates = map[string]templates.ID{
	"kubernetes": templates.KubernetesManifest,
	"docker":     templates.ComposeFile,
	"aws":        templates.AWSManifest,
	"gcp":        templates.GCPManifest,
	"azure":      templates.AzureManifest,
}

// DeploymentTool generates NativeLink deployment manifests.
type DeploymentTool struct {
	renderer *templates.Renderer
}

// NewDeploymentTool creates the tool.
func NewDeploymentTool(renderer *templates.Renderer) *DeploymentTool {
	return &DeploymentTool{renderer: renderer}
}

// Descriptor returns the tool's registration entry.
func (t *DeploymentTool) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: "generate_deployment_config",
		Description: "Generate deployment manifests for self-hosting NativeLink on a " +
			"target platform at a given scale.",
		Fields: []schema.Field{
			{
				Name:        "platform",
				Type:        schema.TypeString,
				Description: "Target platform.",
				Required:    true,
				Enum:        []string{"kubernetes", "docker", "aws", "gcp", "azure"},
			},
			{
				Name:        "scale",
				Type:        schema.TypeString,
				Description: "Deployment size profile.",
				Required:    true,
				Enum:        []string{"small", "medium", "large", "enterprise"},
			},
			{
				Name:        "features",
				Type:        schema.TypeStringList,
				Description: "Optional features: monitoring, autoscaling, ingress, tls.",
			},
		},
		Handler: t.handle,
	}
}

func (t *DeploymentTool) handle(_ context.Context, args schema.Args) (string, error) {
	platform := args.String("platform")
	scale := args.String("scale")
	features := args.StringList("features")

	profile, ok := scaleProfiles[scale]
	if !ok {
		return "", fmt.Errorf("no sizing profile for scale %q", scale)
	}
	templateID, ok := platformTemplates[platform]
	if !ok {
		return "", fmt.Errorf("no manifest template for platform %q", platform)
	}

	data := templates.DeploymentData{
		GeneratedAt: timestamp(),
		Platform:    platform,
		Scale:       scale,
		Replicas:    profile.replicas,
		MinReplicas: profile.minReplicas,
		MaxReplicas: profile.maxReplicas,
		CPU:         profile.cpu,
		Memory:      profile.memory,
		CPULimit:    profile.cpuLimit,
		MemoryLimit: profile.memoryLimit,
		Monitoring:  hasFeature(features, "monitoring"),
		Autoscaling: hasFeature(features, "autoscaling"),
		Ingress:     hasFeature(features, "ingress"),
		TLS:         hasFeature(features, "tls"),
	}
	return t.renderer.Render(templateID, data)
}
