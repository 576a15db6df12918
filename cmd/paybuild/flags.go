package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bitfsorg/paybuild-go/config"
)

const (
	DatadirEnvVar = "PAYBUILD_DATADIR"
)

var (
	datadirFlag = &cli.StringFlag{
		Name:    "datadir",
		Usage:   "data directory holding config.toml and the build journal",
		Value:   config.DefaultDataDir(),
		EnvVars: []string{DatadirEnvVar},
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "network name: mainnet, preprod or preview",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn or error",
	}
	verboseFlag = &cli.BoolFlag{
		Name:        "verbose",
		Usage:       "enable debug logs",
		Value:       false,
		DefaultText: "false",
	}
	rpcURLFlag = &cli.StringFlag{
		Name:    "rpc-url",
		Usage:   "wallet bridge JSON-RPC url",
		EnvVars: []string{config.EnvRPCURL},
	}
	rpcUserFlag = &cli.StringFlag{
		Name:    "rpc-user",
		Usage:   "wallet bridge user",
		EnvVars: []string{config.EnvRPCUser},
	}
	rpcPassFlag = &cli.StringFlag{
		Name:    "rpc-pass",
		Usage:   "wallet bridge password",
		EnvVars: []string{config.EnvRPCPass},
	}

	utxosFlag = &cli.StringFlag{
		Name:  "utxos",
		Usage: "JSON file with unspent outputs; the wallet bridge is queried when unset",
	}
	paramsFlag = &cli.StringFlag{
		Name:  "params",
		Usage: "JSON file with protocol parameters; the wallet bridge is queried when unset",
	}
	orderFlag = &cli.StringFlag{
		Name:  "order",
		Usage: "list outputs in this order: discovery, value-desc, value-asc or clean-first",
	}
	listFlag = &cli.BoolFlag{
		Name:  "list",
		Usage: "also list the outputs",
	}
	cleanOnlyFlag = &cli.BoolFlag{
		Name:  "clean-only",
		Usage: "only consider outputs without assets",
	}

	modeFlag = &cli.StringFlag{
		Name:  "mode",
		Usage: "payment mode: fixed, sweep or rate_based",
		Value: "fixed",
	}
	strategyFlag = &cli.StringFlag{
		Name:  "strategy",
		Usage: "selection strategy; defaults to the configured one",
	}
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "destination address, hex",
		Required: true,
	}
	changeFlag = &cli.StringFlag{
		Name:  "change",
		Usage: "change address, hex; the wallet is asked when unset",
	}
	amountFlag = &cli.Uint64Flag{
		Name:  "amount",
		Usage: "amount to send in lovelace (fixed mode)",
	}
	adaOnlyFlag = &cli.BoolFlag{
		Name:  "ada-only",
		Usage: "leave asset-bearing outputs out of a sweep",
	}
	excludeFlag = &cli.StringSliceFlag{
		Name:  "exclude",
		Usage: "output references (txhash#index) to leave out of a sweep",
	}
	minKeepFlag = &cli.Uint64Flag{
		Name:  "min-keep",
		Usage: "smallest swept amount worth sending",
	}
	fiatFlag = &cli.StringFlag{
		Name:  "fiat",
		Usage: "fiat amount to pay (rate_based mode)",
	}
	rateFlag = &cli.StringFlag{
		Name:  "rate",
		Usage: "exchange rate in fiat per ADA (rate_based mode)",
	}
	upperLimitFlag = &cli.Uint64Flag{
		Name:  "upper-limit",
		Usage: "largest acceptable converted amount in lovelace (rate_based mode)",
	}
	slippageFlag = &cli.UintFlag{
		Name:  "slippage-bps",
		Usage: "slippage tolerance in basis points deducted from the converted amount",
	}
	selectFlag = &cli.StringSliceFlag{
		Name:  "select",
		Usage: "output references (txhash#index) that must be spent",
	}
	ttlFlag = &cli.Uint64Flag{
		Name:  "ttl",
		Usage: "absolute validity slot",
	}
	ttlOffsetFlag = &cli.Uint64Flag{
		Name:  "ttl-offset",
		Usage: "validity in slots past the current one; defaults to the configured offset",
	}
	idFlag = &cli.StringFlag{
		Name:     "id",
		Usage:    "build id from the journal",
		Required: true,
	}
)
