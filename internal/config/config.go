// Package config holds the immutable process configuration.
//
// The Config struct is built exactly once at startup — environment first,
// then command-line flags on top — and passed by value into the transports
// and the outbound client. Nothing mutates it afterwards; per-request
// credential overrides on the HTTP transport travel through the request
// context instead (see internal/nativelink).
package config

import "os"

// Defaults used when neither environment nor flags provide a value.
const (
	DefaultNativeLinkURL = "grpcs://cas.nativelink.com"
	DefaultDocsURL       = "https://docs.nativelink.com/api"
	DefaultTransport     = TransportStdio
	DefaultPort          = 8080
)

// Supported transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config is the full process configuration.
type Config struct {
	// APIKey is the default NativeLink API key sent on outbound
	// documentation and analysis calls. May be empty.
	APIKey string

	// NativeLinkURL is the remote cache/execution endpoint stamped into
	// generated build configurations.
	NativeLinkURL string

	// DocsURL is the base URL of the NativeLink documentation API.
	DocsURL string

	// Transport selects the serving mode: "stdio" or "http".
	Transport string

	// Port is the HTTP listen port (http transport only).
	Port int
}

// FromEnv builds a Config from environment variables, falling back to the
// package defaults. Flag overrides are applied by the caller on top of the
// returned value, before the Config is handed to anything else.
func FromEnv() Config {
	cfg := Config{
		APIKey:        os.Getenv("NATIVELINK_API_KEY"),
		NativeLinkURL: envOr("NATIVELINK_URL", DefaultNativeLinkURL),
		DocsURL:       envOr("NATIVELINK_DOCS_URL", DefaultDocsURL),
		Transport:     DefaultTransport,
		Port:          DefaultPort,
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
