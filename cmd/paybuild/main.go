package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/bitfsorg/paybuild-go/config"
)

var Version string

// cfg is loaded once in Before and read by every command.
var cfg config.Config

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "paybuild"
	app.Usage = "build payment transactions from a wallet's unspent outputs"
	app.Commands = append(
		app.Commands,
		&initCommand,
		&strategiesCommand,
		&analyzeCommand,
		&buildCommand,
		&submitCommand,
		&historyCommand,
	)
	app.Flags = []cli.Flag{
		datadirFlag,
		networkFlag,
		logLevelFlag,
		verboseFlag,
		rpcURLFlag,
		rpcUserFlag,
		rpcPassFlag,
	}
	app.Before = func(ctx *cli.Context) error {
		loaded, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		cfg = loaded
		return setupLogging(cfg)
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

// loadConfig reads the data directory's config file, or the environment
// alone when there is none, and applies global flags on top.
func loadConfig(ctx *cli.Context) (config.Config, error) {
	dataDir := ctx.String(datadirFlag.Name)
	c, err := config.LoadConfig(config.ConfigPath(dataDir))
	if errors.Is(err, config.ErrConfigNotFound) {
		c, err = config.LoadEnv()
	}
	if err != nil {
		return config.Config{}, err
	}
	c.DataDir = dataDir

	if ctx.IsSet(networkFlag.Name) {
		c.Network = ctx.String(networkFlag.Name)
		c.RPC.Network = c.Network
	}
	if ctx.IsSet(logLevelFlag.Name) {
		c.LogLevel = ctx.String(logLevelFlag.Name)
	}
	if ctx.Bool(verboseFlag.Name) {
		c.LogLevel = "debug"
	}
	if v := ctx.String(rpcURLFlag.Name); v != "" {
		c.RPC.URL = v
	}
	if v := ctx.String(rpcUserFlag.Name); v != "" {
		c.RPC.User = v
	}
	if v := ctx.String(rpcPassFlag.Name); v != "" {
		c.RPC.Password = v
	}

	if err := config.ValidateConfig(c); err != nil {
		return config.Config{}, err
	}
	return c, nil
}

func setupLogging(c config.Config) error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stderr)

	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
	}
	return nil
}

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}
