package config

import (
	"fmt"

	"github.com/bitfsorg/paybuild-go/network"
)

// Environment variables overriding the wallet bridge connection. They map to
// the rpc.url, rpc.user and rpc.password keys.
const (
	EnvRPCURL  = EnvPrefix + "_RPC_URL"
	EnvRPCUser = EnvPrefix + "_RPC_USER"
	EnvRPCPass = EnvPrefix + "_RPC_PASS"
)

// rpcPresets holds bridge defaults for the test networks. Mainnet is
// omitted to require explicit configuration.
var rpcPresets = map[string]network.RPCConfig{
	"preview": {URL: "http://localhost:8090", User: "paybuild", Password: "paybuild"},
	"preprod": {URL: "http://localhost:8091", User: "paybuild", Password: "paybuild"},
}

// RPCPreset returns the bridge defaults for a network, if it has any.
func RPCPreset(name string) (network.RPCConfig, bool) {
	p, ok := rpcPresets[name]
	if ok {
		p.Network = name
	}
	return p, ok
}

// ResolveRPC returns the bridge connection for cfg. cfg.RPC already carries
// the file, environment and flag layers; fields left empty fall back to the
// network's preset.
func ResolveRPC(cfg Config) (network.RPCConfig, error) {
	rpc := cfg.RPC
	rpc.Network = cfg.Network

	if preset, ok := RPCPreset(cfg.Network); ok {
		if rpc.URL == "" {
			rpc.URL = preset.URL
		}
		if rpc.User == "" {
			rpc.User = preset.User
		}
		if rpc.Password == "" {
			rpc.Password = preset.Password
		}
	}

	if rpc.URL == "" {
		return network.RPCConfig{}, fmt.Errorf("%w: %s requires explicit configuration (set --rpc-url, %s, or rpc.url)",
			ErrMissingRPCURL, cfg.Network, EnvRPCURL)
	}
	return rpc, nil
}
