package tools

import (
	"context"
	"strings"

	"github.com/TraceMachina/nativelink-mcp-server/internal/config"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
	"github.com/TraceMachina/nativelink-mcp-server/internal/templates"
)

// languageFlags are the per-project-type bazelrc additions.
var languageFlags = map[string][]string{
	"rust": {
		"build --@rules_rust//rust/settings:pipelined_compilation=True",
		"build --strategy=Rustc=remote",
	},
	"cpp": {
		"build --cxxopt=-std=c++17",
		"build --features=layering_check",
	},
	"java": {
		"build --java_language_version=17",
		"build --strategy=Javac=remote",
	},
	"python": {
		"build --incompatible_default_to_explicit_init_py",
	},
	"go": {
		"build --strategy=GoCompilePkg=remote",
	},
	"mixed": {
		"build --incompatible_strict_action_env",
	},
}

// BuildConfigTool generates a NativeLink-enabled .bazelrc snippet.
type BuildConfigTool struct {
	renderer   *templates.Renderer
	defaultURL string
}

// NewBuildConfigTool creates the tool with the process default endpoint.
func NewBuildConfigTool(renderer *templates.Renderer, cfg config.Config) *BuildConfigTool {
	return &BuildConfigTool{renderer: renderer, defaultURL: cfg.NativeLinkURL}
}

// Descriptor returns the tool's registration entry.
func (t *BuildConfigTool) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name: "generate_nativelink_config",
		Description: "Generate an optimized .bazelrc configuration for building with " +
			"NativeLink remote cache and remote execution.",
		Fields: []schema.Field{
			{
				Name:        "projectType",
				Type:        schema.TypeString,
				Description: "Primary language of the Bazel workspace.",
				Required:    true,
				Enum:        []string{"rust", "cpp", "java", "python", "go", "mixed"},
			},
			{
				Name:        "nativelinkUrl",
				Type:        schema.TypeString,
				Description: "Remote cache endpoint. Defaults to the NativeLink Cloud CAS endpoint.",
			},
			{
				Name:        "features",
				Type:        schema.TypeStringList,
				Description: "NativeLink features to enable: remote_cache, remote_execution, bes.",
				Default:     []string{"remote_cache", "remote_execution", "bes"},
			},
		},
		Handler: t.handle,
	}
}

func (t *BuildConfigTool) handle(_ context.Context, args schema.Args) (string, error) {
	projectType := args.String("projectType")
	endpoint := args.String("nativelinkUrl")
	if endpoint == "" {
		endpoint = t.defaultURL
	}
	features := args.StringList("features")

	data := templates.BazelRCData{
		GeneratedAt:       timestamp(),
		ProjectType:       projectType,
		CacheEndpoint:     endpoint,
		SchedulerEndpoint: siblingEndpoint(endpoint, "scheduler"),
		BESEndpoint:       siblingEndpoint(endpoint, "bes"),
		RemoteCache:       hasFeature(features, "remote_cache"),
		RemoteExecution:   hasFeature(features, "remote_execution"),
		BES:               hasFeature(features, "bes"),
		LanguageFlags:     languageFlags[projectType],
	}
	return t.renderer.Render(templates.BazelRC, data)
}

// siblingEndpoint derives the scheduler/BES endpoint from the CAS endpoint
// for the standard NativeLink Cloud naming. Custom endpoints that don't
// follow the cas.* convention are reused as-is.
func siblingEndpoint(casURL, role string) string {
	if strings.Contains(casURL, "cas.") {
		return strings.Replace(casURL, "cas.", role+".", 1)
	}
	return casURL
}
