// Package config loads and saves the operator's settings. Values come from a
// TOML file in the data directory, overridden by PAYBUILD_ environment
// variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bitfsorg/paybuild-go/network"
	"github.com/bitfsorg/paybuild-go/tx"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PAYBUILD"

// envReplacer maps nested keys like rpc.url to PAYBUILD_RPC_URL.
var envReplacer = strings.NewReplacer(".", "_", "-", "_")

// Config holds the operator's settings.
type Config struct {
	DataDir   string            `mapstructure:"datadir"`
	Network   string            `mapstructure:"network"`
	LogLevel  string            `mapstructure:"loglevel"`
	LogFile   string            `mapstructure:"logfile"`
	Strategy  string            `mapstructure:"strategy"`   // default selection strategy
	TTLOffset uint64            `mapstructure:"ttl_offset"` // slots past the current one
	RPC       network.RPCConfig `mapstructure:"rpc"`
}

// DefaultDataDir returns ~/.paybuild, or .paybuild when the home directory
// cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".paybuild"
	}
	return filepath.Join(home, ".paybuild")
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		Network:   "preview",
		LogLevel:  "info",
		Strategy:  "optimal",
		TTLOffset: tx.DefaultTTLOffset,
	}
}

// ConfigPath returns the configuration file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.toml")
}

// JournalPath returns the build journal path inside dataDir.
func JournalPath(dataDir string) string {
	return filepath.Join(dataDir, "journal.db")
}

func newViper(cfg Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	_ = v.BindEnv("rpc.password", EnvRPCPass)

	v.SetDefault("datadir", cfg.DataDir)
	v.SetDefault("network", cfg.Network)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logfile", cfg.LogFile)
	v.SetDefault("strategy", cfg.Strategy)
	v.SetDefault("ttl_offset", cfg.TTLOffset)
	v.SetDefault("rpc.url", cfg.RPC.URL)
	v.SetDefault("rpc.user", cfg.RPC.User)
	v.SetDefault("rpc.password", cfg.RPC.Password)
	v.SetDefault("rpc.network", cfg.RPC.Network)
	return v
}

// LoadConfig reads the file at path on top of the defaults and applies
// environment overrides. Keys absent from the file keep their defaults and
// unknown keys are ignored.
func LoadConfig(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
	}

	v := newViper(DefaultConfig())
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return decode(v)
}

// LoadEnv returns the defaults with only environment overrides applied, for
// running without a configuration file.
func LoadEnv() (Config, error) {
	return decode(newViper(DefaultConfig()))
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.RPC.Network == "" {
		cfg.RPC.Network = cfg.Network
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as TOML, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigPermissions(0600)
	v.Set("datadir", cfg.DataDir)
	v.Set("network", cfg.Network)
	v.Set("loglevel", cfg.LogLevel)
	v.Set("logfile", cfg.LogFile)
	v.Set("strategy", cfg.Strategy)
	v.Set("ttl_offset", cfg.TTLOffset)
	v.Set("rpc.url", cfg.RPC.URL)
	v.Set("rpc.user", cfg.RPC.User)
	v.Set("rpc.password", cfg.RPC.Password)
	v.Set("rpc.network", cfg.RPC.Network)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
