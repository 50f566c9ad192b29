// Package nativelink talks to the NativeLink documentation and analysis
// endpoints, degrading to locally-held content whenever the network does
// not cooperate.
//
// Every fetch resolves to an Outcome: either the network answer or the
// offline substitute. The fallback decision is made in exactly one place
// (the error branch after postJSON), so the contract that these calls
// always succeed from the dispatcher's point of view cannot be bypassed —
// no method of Client returns an error.
package nativelink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TraceMachina/nativelink-mcp-server/internal/config"
)

// requestTimeout bounds every outbound call so a dead endpoint cannot hang
// a dispatch.
const requestTimeout = 10 * time.Second

// Source says which branch produced an Outcome.
type Source string

const (
	SourceNetwork Source = "network"
	SourceOffline Source = "offline"
)

// Outcome is the always-successful result of a docs or analysis call.
type Outcome struct {
	Text   string
	Source Source
}

// DocsRequest asks for documentation on one topic.
type DocsRequest struct {
	Topic     string `json:"topic"`
	Context   string `json:"context,omitempty"`
	MaxTokens int    `json:"maxTokens"`
}

// Metrics carries the optional build metrics for an analysis request.
// Pointer fields distinguish "not supplied" from zero.
type Metrics struct {
	TotalTime           *float64 `json:"totalTime,omitempty"`
	CacheHitRate        *float64 `json:"cacheHitRate,omitempty"`
	RemoteExecutionTime *float64 `json:"remoteExecutionTime,omitempty"`
	LocalExecutionTime  *float64 `json:"localExecutionTime,omitempty"`
	NetworkTransferSize *float64 `json:"networkTransferSize,omitempty"`
}

// AnalysisRequest asks for a build performance analysis.
type AnalysisRequest struct {
	ProfileData        string   `json:"profileData,omitempty"`
	Metrics            *Metrics `json:"metrics,omitempty"`
	TargetOptimization string   `json:"targetOptimization"`
}

// Client is the outbound NativeLink API client. Safe for concurrent use.
type Client struct {
	http    *http.Client
	docsURL string
	apiKey  string
	log     *log.Logger
}

// NewClient builds a Client from the process configuration.
func NewClient(cfg config.Config, logger *log.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		docsURL: cfg.DocsURL,
		apiKey:  cfg.APIKey,
		log:     logger,
	}
}

// FetchDocs returns documentation for req.Topic: the endpoint's answer when
// reachable, the embedded offline page otherwise.
func (c *Client) FetchDocs(ctx context.Context, req DocsRequest) Outcome {
	text, err := c.postJSON(ctx, "/docs/query", req)
	if err != nil {
		c.log.Debug("docs endpoint unavailable, serving offline content",
			"topic", req.Topic, "error", err)
		return Outcome{Text: offlineDocs(req.Topic), Source: SourceOffline}
	}
	return Outcome{Text: text, Source: SourceNetwork}
}

// AnalyzePerformance returns a performance analysis: the endpoint's answer
// when reachable, a locally computed report otherwise.
func (c *Client) AnalyzePerformance(ctx context.Context, req AnalysisRequest) Outcome {
	text, err := c.postJSON(ctx, "/analyze", req)
	if err != nil {
		c.log.Debug("analysis endpoint unavailable, computing local analysis",
			"error", err)
		return Outcome{Text: offlineAnalysis(req), Source: SourceOffline}
	}
	return Outcome{Text: text, Source: SourceNetwork}
}

type apiResponse struct {
	Content string `json:"content"`
}

// postJSON performs one outbound call. Any failure — request construction,
// transport error, timeout, non-2xx status, undecodable or empty body —
// comes back as an error for the caller's single fallback branch.
func (c *Client) postJSON(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.docsURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := c.resolveKey(ctx); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading %s response: %w", path, err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", path, err)
	}
	if decoded.Content == "" {
		return "", fmt.Errorf("%s response carried no content", path)
	}
	return decoded.Content, nil
}

// resolveKey prefers the per-request credential (HTTP transport header
// extraction) over the process-wide key. The shared configuration is never
// mutated.
func (c *Client) resolveKey(ctx context.Context) string {
	if key, ok := APIKeyFromContext(ctx); ok {
		return key
	}
	return c.apiKey
}
