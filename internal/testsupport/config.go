package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"steameagle/internal/config"
)

// CanonicalSteamID is a well-formed individual account used across tests.
const CanonicalSteamID = "76561198092541763"

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Steam.APIKey = "test-key"
	cfgVal.Steam.SteamID = CanonicalSteamID
	cfgVal.Steam.StoreRequestsPerSecond = 0
	cfgVal.Eagle.LibraryName = "Games"
	cfgVal.Paths.ImageDir = filepath.Join(base, "img")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Sync.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSteamServer points every Steam endpoint at the fake server.
func WithSteamServer(server *FakeSteam) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Steam.APIBaseURL = server.URL()
		b.cfg.Steam.StoreBaseURL = server.URL()
		b.cfg.Steam.CDNBaseURL = server.URL()
	}
}

// WithEagleServer points the Eagle client at the fake server.
func WithEagleServer(server *FakeEagle) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Eagle.URL = server.URL()
		b.cfg.Eagle.LibraryName = server.LibraryName()
	}
}

// WithNtfyTopic sets the notification topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithWorkers overrides the download concurrency.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.Workers = n
	}
}

// BaseDir returns the temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// WriteConfigFile encodes cfg as TOML next to its temp directories and
// returns the file path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
