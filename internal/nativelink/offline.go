package nativelink

import (
	"fmt"
	"sort"
	"strings"
)

// Offline documentation, one page per supported topic. Served whenever the
// docs endpoint cannot be reached; content is intentionally static so the
// fallback path stays deterministic.
var offlinePages = map[string]string{
	"setup": `# NativeLink Setup Guide (Offline)

## Quick Start

1. Create a NativeLink Cloud account and generate an API key.
2. Add the remote cache endpoint to your .bazelrc:

   build --remote_cache=grpcs://cas.nativelink.com
   build --remote_header=x-nativelink-api-key=<your-key>

3. Enable remote execution for clean-machine builds:

   build --remote_executor=grpcs://scheduler.nativelink.com

4. Run a build and confirm cache traffic:

   bazel build //... --remote_download_minimal

## Verifying the Connection

Look for "remote cache hit" lines in the build event output. A fully warm
cache should report close to 100% hits on an unchanged tree.
`,

	"migration": `# NativeLink Migration Guide (Offline)

## Migrating from Bazel Remote Cache

Replace your existing --remote_cache endpoint with the NativeLink CAS
endpoint and keep your existing --disk_cache as a local fallback during the
transition.

## Migrating from BuildBuddy or EngFlow

NativeLink speaks the standard Remote Execution API (REAPI v2), so only the
endpoint flags and credential headers change. Action results are not
portable between providers; expect the first build to repopulate the cache.

## Recommended Rollout

1. Point CI at NativeLink while developers stay on the old cache.
2. Compare cache hit rates for one week.
3. Switch developer .bazelrc files once CI hit rates stabilize.
`,

	"optimization": `# NativeLink Build Optimization Guide (Offline)

## Cache Hit Rate

Hit rates below 80% usually mean non-hermetic actions. Audit actions with:

   bazel aquery 'mnemonic(".*", //...)' --output=summary

Common culprits: embedded timestamps, absolute paths, and environment
variables leaking into actions.

## Remote Execution Throughput

- Raise --jobs above local core count; remote workers do the heavy lifting.
- Use --remote_download_minimal to avoid fetching intermediate outputs.
- Keep toolchains in the workspace so workers never miss inputs.

## Network Transfer

Enable compression (--remote_cache_compression) and batch small blobs
(--remote_upload_local_results).
`,

	"troubleshooting": `# NativeLink Troubleshooting Guide (Offline)

## DEADLINE_EXCEEDED on cache calls

Raise --remote_timeout (default 60s) or check for proxy interference on
gRPC traffic.

## UNAUTHENTICATED errors

The API key header must be present on every call:

   build --remote_header=x-nativelink-api-key=<your-key>

Keys are environment-scoped; a staging key will not authenticate against
the production endpoint.

## Mismatched action results

Run with --execution_log_json_file on two machines and diff the logs to
find non-hermetic inputs.
`,

	"api": `# NativeLink API Reference (Offline)

## Remote Execution API

NativeLink implements REAPI v2 (build.bazel.remote.execution.v2):
ActionCache, ContentAddressableStorage, Capabilities, and Execution
services over gRPC.

## Endpoints

- CAS and action cache: grpcs://cas.nativelink.com
- Remote execution scheduler: grpcs://scheduler.nativelink.com
- Build Event Service: grpcs://bes.nativelink.com

## Authentication

All services authenticate via the x-nativelink-api-key request header or a
Bearer token on HTTP surfaces.
`,
}

// offlineDocs returns the embedded page for topic. Topics are validated
// against a closed enum before any handler runs, so an unknown topic here
// means a registration bug, not caller input; it is reported in the text
// rather than silently remapped to another topic.
func offlineDocs(topic string) string {
	if page, ok := offlinePages[topic]; ok {
		return page
	}
	known := make([]string, 0, len(offlinePages))
	for t := range offlinePages {
		known = append(known, t)
	}
	sort.Strings(known)
	return fmt.Sprintf("No offline documentation is available for topic %q. Known topics: %s.",
		topic, strings.Join(known, ", "))
}

// offlineAnalysis computes a deterministic local report from whatever
// metrics the caller supplied.
func offlineAnalysis(req AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("# Build Performance Analysis (Offline)\n\n")

	m := req.Metrics
	if m == nil && req.ProfileData == "" {
		b.WriteString("No metrics or profile data supplied. General guidance:\n\n")
	}

	if m != nil {
		b.WriteString("## Observed Metrics\n\n")
		if m.TotalTime != nil {
			fmt.Fprintf(&b, "- Total build time: %.1fs\n", *m.TotalTime)
		}
		if m.CacheHitRate != nil {
			fmt.Fprintf(&b, "- Cache hit rate: %.1f%% (%s)\n",
				*m.CacheHitRate*100, rateCacheHit(*m.CacheHitRate))
		}
		if m.RemoteExecutionTime != nil {
			fmt.Fprintf(&b, "- Remote execution time: %.1fs\n", *m.RemoteExecutionTime)
		}
		if m.LocalExecutionTime != nil {
			fmt.Fprintf(&b, "- Local execution time: %.1fs\n", *m.LocalExecutionTime)
		}
		if m.RemoteExecutionTime != nil && m.LocalExecutionTime != nil && *m.LocalExecutionTime > 0 {
			fmt.Fprintf(&b, "- Remote/local time ratio: %.2f\n",
				*m.RemoteExecutionTime / *m.LocalExecutionTime)
		}
		if m.NetworkTransferSize != nil {
			fmt.Fprintf(&b, "- Network transfer: %s\n", humanBytes(*m.NetworkTransferSize))
		}
		b.WriteString("\n")
	}

	if req.ProfileData != "" {
		fmt.Fprintf(&b, "## Profile Data\n\nReceived %d bytes of profile data. "+
			"Upload it with `bazel analyze-profile` for a phase breakdown.\n\n",
			len(req.ProfileData))
	}

	fmt.Fprintf(&b, "## Recommendations (%s)\n\n", req.TargetOptimization)
	for _, rec := range recommendations(req) {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	return b.String()
}

func rateCacheHit(rate float64) string {
	switch {
	case rate < 0.5:
		return "low"
	case rate < 0.8:
		return "moderate"
	default:
		return "good"
	}
}

func recommendations(req AnalysisRequest) []string {
	var recs []string

	if m := req.Metrics; m != nil && m.CacheHitRate != nil && *m.CacheHitRate < 0.8 {
		recs = append(recs,
			"Cache hit rate is below 80%: audit actions for non-hermetic inputs (timestamps, absolute paths, environment variables).")
	}

	switch req.TargetOptimization {
	case "speed":
		recs = append(recs,
			"Raise --jobs beyond local core count to exploit remote executors.",
			"Use --remote_download_minimal to skip intermediate output downloads.",
			"Keep BES enabled so slow actions are visible per invocation.")
	case "cost":
		recs = append(recs,
			"Prefer remote caching over remote execution for rarely-changing targets.",
			"Enable --remote_cache_compression to cut transfer volume.",
			"Scope remote execution to CI; developer builds usually amortize locally.")
	default:
		recs = append(recs,
			"Enable remote cache, remote execution, and BES together for the best throughput/cost balance.",
			"Use --remote_download_minimal and revisit once cache hit rates stabilize.",
			"Review the optimization docs topic for action hermeticity checks.")
	}

	return recs
}

func humanBytes(n float64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GiB", n/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MiB", n/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KiB", n/(1<<10))
	default:
		return fmt.Sprintf("%.0f B", n)
	}
}
