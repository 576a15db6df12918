package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/paybuild-go/network"
	"github.com/bitfsorg/paybuild-go/tx"
)

// ---------------------------------------------------------------------------
// DefaultConfig tests
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Network", cfg.Network, "preview"},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"Strategy", cfg.Strategy, "optimal"},
		{"TTLOffset", cfg.TTLOffset, uint64(tx.DefaultTTLOffset)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}

	assert.True(t, strings.HasSuffix(cfg.DataDir, ".paybuild"), "DataDir = %q", cfg.DataDir)
}

func TestConfigPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/user/.paybuild", "config.toml"), ConfigPath("/home/user/.paybuild"))
	assert.Equal(t, filepath.Join("/home/user/.paybuild", "journal.db"), JournalPath("/home/user/.paybuild"))
}

// ---------------------------------------------------------------------------
// SaveConfig / LoadConfig
// ---------------------------------------------------------------------------

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	original := Config{
		DataDir:   "/tmp/test-paybuild",
		Network:   "preprod",
		LogLevel:  "debug",
		LogFile:   "/tmp/paybuild.log",
		Strategy:  "branch-and-bound",
		TTLOffset: 3600,
		RPC: network.RPCConfig{
			URL:      "http://localhost:9999",
			User:     "alice",
			Password: "secret",
			Network:  "preprod",
		},
	}

	require.NoError(t, SaveConfig(path, original))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "config.toml")

	require.NoError(t, SaveConfig(path, DefaultConfig()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestLoadConfigNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.toml")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml\n"), 0600))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `# comment
network = "preprod"
futurekey = "ignored"

[rpc]
url = "http://bridge:8091"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "preprod", cfg.Network)
	assert.Equal(t, "http://bridge:8091", cfg.RPC.URL)
	assert.Equal(t, "preprod", cfg.RPC.Network, "rpc network follows the top level network")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "optimal", cfg.Strategy)
	assert.Equal(t, uint64(tx.DefaultTTLOffset), cfg.TTLOffset)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveConfig(path, DefaultConfig()))

	t.Setenv("PAYBUILD_LOGLEVEL", "warn")
	t.Setenv("PAYBUILD_TTL_OFFSET", "120")
	t.Setenv(EnvRPCURL, "http://override:1234")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, uint64(120), cfg.TTLOffset)
	assert.Equal(t, "http://override:1234", cfg.RPC.URL)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("PAYBUILD_NETWORK", "mainnet")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "info", cfg.LogLevel)
}

// ---------------------------------------------------------------------------
// ValidateConfig
// ---------------------------------------------------------------------------

func TestValidateConfigDefaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"empty_datadir", func(c *Config) { c.DataDir = "" }, ErrEmptyDataDir},
		{"bad_network", func(c *Config) { c.Network = "testnet" }, ErrInvalidNetwork},
		{"bad_loglevel", func(c *Config) { c.LogLevel = "verbose" }, ErrInvalidLogLevel},
		{"bad_strategy", func(c *Config) { c.Strategy = "random" }, ErrInvalidStrategy},
		{"bad_rpc_scheme", func(c *Config) { c.RPC.URL = "ftp://bridge" }, ErrInvalidRPCURL},
		{"rpc_without_host", func(c *Config) { c.RPC.URL = "http://" }, ErrInvalidRPCURL},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.modify(&cfg)
			assert.ErrorIs(t, ValidateConfig(cfg), tc.wantErr)
		})
	}
}

func TestValidateConfigAccepted(t *testing.T) {
	for _, network := range []string{"mainnet", "preprod", "preview"} {
		cfg := DefaultConfig()
		cfg.Network = network
		assert.NoError(t, ValidateConfig(cfg), network)
	}
	for _, level := range []string{"debug", "info", "warn", "error", "INFO", "Debug"} {
		cfg := DefaultConfig()
		cfg.LogLevel = level
		assert.NoError(t, ValidateConfig(cfg), level)
	}
	for _, strategy := range []string{"", "optimal", "largest-first", "clean-first-greedy", "branch-and-bound"} {
		cfg := DefaultConfig()
		cfg.Strategy = strategy
		assert.NoError(t, ValidateConfig(cfg), strategy)
	}
	cfg := DefaultConfig()
	cfg.RPC.URL = "https://bridge.example.com:8090/rpc"
	assert.NoError(t, ValidateConfig(cfg))
}
