package nativelink

import "context"

type contextKey struct{}

var apiKeyContextKey contextKey

// WithAPIKey returns a context carrying a per-request API key override.
// The override lives and dies with the one request it was extracted from.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey, key)
}

// APIKeyFromContext returns the per-request API key override, if any.
func APIKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(apiKeyContextKey).(string)
	return key, ok && key != ""
}
