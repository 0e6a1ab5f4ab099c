// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"watchtag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.TMDB.APIKey = "test"
	cfg.Catalog.URL = "http://127.0.0.1:1"
	cfg.Catalog.APIKey = "test"
	cfg.Providers = []config.Provider{
		{Name: "StreamCo", ProviderIDs: []int{8}, CreateCollection: true},
	}
	cfg.Schedule.Enabled = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.TMDB.APIKey = key
	}
}

// WithCatalog points the test config at a catalog server, usually an
// httptest.Server URL.
func WithCatalog(url, apiKey string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Catalog.URL = url
		cfg.Catalog.APIKey = apiKey
	}
}

// WithAPIToken enables bearer-token authentication on the daemon API.
func WithAPIToken(token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Paths.APIToken = token
	}
}

// WithProviders replaces the configured provider rules.
func WithProviders(rules ...config.Provider) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Providers = rules
	}
}
