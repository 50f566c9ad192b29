package config

import "testing"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("NATIVELINK_API_KEY", "")
	t.Setenv("NATIVELINK_URL", "")
	t.Setenv("NATIVELINK_DOCS_URL", "")

	cfg := FromEnv()

	if cfg.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.APIKey)
	}
	if cfg.NativeLinkURL != DefaultNativeLinkURL {
		t.Errorf("NativeLinkURL = %q, want %q", cfg.NativeLinkURL, DefaultNativeLinkURL)
	}
	if cfg.DocsURL != DefaultDocsURL {
		t.Errorf("DocsURL = %q, want %q", cfg.DocsURL, DefaultDocsURL)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("Transport = %q, want %q", cfg.Transport, TransportStdio)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
}

func TestFromEnv_ReadsEnvironment(t *testing.T) {
	t.Setenv("NATIVELINK_API_KEY", "nl_test_key")
	t.Setenv("NATIVELINK_URL", "grpcs://cache.internal:443")
	t.Setenv("NATIVELINK_DOCS_URL", "https://docs.internal/api")

	cfg := FromEnv()

	if cfg.APIKey != "nl_test_key" {
		t.Errorf("APIKey = %q, want nl_test_key", cfg.APIKey)
	}
	if cfg.NativeLinkURL != "grpcs://cache.internal:443" {
		t.Errorf("NativeLinkURL = %q", cfg.NativeLinkURL)
	}
	if cfg.DocsURL != "https://docs.internal/api" {
		t.Errorf("DocsURL = %q", cfg.DocsURL)
	}
}
