// Package templates renders the generated configuration artifacts.
//
// All output templates are embedded at build time and parsed once in
// NewRenderer; tools pass a typed Data struct for the artifact they
// produce. Keeping the text here — instead of string concatenation inside
// the tools — keeps the generators reviewable as plain files.
package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed files/*.tmpl
var files embed.FS

// ID names one embedded template.
type ID string

const (
	BazelRC            ID = "bazelrc.tmpl"
	KubernetesManifest ID = "kubernetes.yaml.tmpl"
	ComposeFile        ID = "compose.yaml.tmpl"
	AWSManifest        ID = "aws.yaml.tmpl"
	GCPManifest        ID = "gcp.yaml.tmpl"
	AzureManifest      ID = "azure.yaml.tmpl"
	WatchScript        ID = "watch.sh.tmpl"
	IbazelScript       ID = "ibazel.sh.tmpl"
)

// BazelRCData fills the .bazelrc template.
type BazelRCData struct {
	GeneratedAt       string
	ProjectType       string
	CacheEndpoint     string
	SchedulerEndpoint string
	BESEndpoint       string
	RemoteCache       bool
	RemoteExecution   bool
	BES               bool
	LanguageFlags     []string
}

// DeploymentData fills the per-platform deployment templates.
type DeploymentData struct {
	GeneratedAt string
	Platform    string
	Scale       string
	Replicas    int
	MinReplicas int
	MaxReplicas int
	CPU         string
	Memory      string
	CPULimit    string
	MemoryLimit string
	Monitoring  bool
	Autoscaling bool
	Ingress     bool
	TLS         bool
}

// WatchData fills the watch automation script templates.
type WatchData struct {
	GeneratedAt  string
	Command      string
	Targets      string
	WatchPaths   []string
	ExcludePaths []string
	DebounceMs   int
}

// Renderer renders embedded templates.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses every embedded template. Failure means a broken
// build, not bad input.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").ParseFS(files, "files/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render executes the template id with data.
func (r *Renderer) Render(id ID, data any) (string, error) {
	var b strings.Builder
	if err := r.templates.ExecuteTemplate(&b, string(id), data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", id, err)
	}
	return b.String(), nil
}
