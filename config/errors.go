package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"preprod\", or \"preview\")")

	// ErrInvalidRPCURL indicates the wallet bridge URL is malformed.
	ErrInvalidRPCURL = errors.New("config: invalid rpc url")

	// ErrMissingRPCURL indicates no wallet bridge URL is configured for a
	// network without a preset.
	ErrMissingRPCURL = errors.New("config: missing rpc url")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidStrategy indicates the default selection strategy is unknown.
	ErrInvalidStrategy = errors.New("config: invalid selection strategy")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("config: invalid configuration file")
)
