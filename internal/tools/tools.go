// Package tools implements the five NativeLink tool handlers.
//
// Each file holds one tool: a struct receiving its dependencies, a
// Descriptor() for registration, and a handler producing the generated
// text. The pure generators (build config, deployment config, watch
// automation) render embedded templates and never touch the network; the
// docs and performance tools call out through internal/nativelink, which
// absorbs every network failure into offline content.
package tools

import "time"

// now is the clock used for generation timestamps.
// For testing: overridable so generated output is reproducible.
var now = time.Now

func timestamp() string {
	return now().UTC().Format(time.RFC3339)
}

func hasFeature(features []string, name string) bool {
	for _, f := range features {
		if f == name {
			return true
		}
	}
	return false
}
