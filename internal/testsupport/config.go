package testsupport

import (
	"path/filepath"
	"testing"

	"ewms/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Sync stays disabled unless an option enables it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithTotalBeds overrides the ward size on the test config.
func WithTotalBeds(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Ward.TotalBeds = n
	}
}

// WithSyncEndpoint enables sync against the given endpoint with short retry
// bounds suitable for tests.
func WithSyncEndpoint(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sync.Enabled = true
		cfg.Sync.EndpointURL = url
		cfg.Sync.RequestTimeout = 2
		cfg.Sync.DrainInterval = 1
		cfg.Sync.RetryBackoffMin = 1
		cfg.Sync.RetryBackoffMax = 1
	}
}
