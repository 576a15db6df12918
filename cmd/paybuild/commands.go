package main

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bitfsorg/paybuild-go/config"
	"github.com/bitfsorg/paybuild-go/journal"
	"github.com/bitfsorg/paybuild-go/mode"
	"github.com/bitfsorg/paybuild-go/payment"
	"github.com/bitfsorg/paybuild-go/selection"
	"github.com/bitfsorg/paybuild-go/utxo"
)

var (
	initCommand = cli.Command{
		Name:  "init",
		Usage: "Write the current configuration to the data directory",
		Action: func(ctx *cli.Context) error {
			return initConfig(ctx)
		},
	}
	strategiesCommand = cli.Command{
		Name:  "strategies",
		Usage: "List the coin selection strategies",
		Action: func(ctx *cli.Context) error {
			return printJSON(selection.Strategies())
		},
	}
	analyzeCommand = cli.Command{
		Name:  "analyze",
		Usage: "Show statistics over the wallet's unspent outputs",
		Action: func(ctx *cli.Context) error {
			return analyze(ctx)
		},
		Flags: []cli.Flag{utxosFlag, listFlag, orderFlag, cleanOnlyFlag},
	}
	buildCommand = cli.Command{
		Name:  "build",
		Usage: "Build an unsigned payment transaction and journal it",
		Action: func(ctx *cli.Context) error {
			return build(ctx)
		},
		Flags: []cli.Flag{
			modeFlag, strategyFlag, toFlag, changeFlag,
			amountFlag, adaOnlyFlag, excludeFlag, minKeepFlag,
			fiatFlag, rateFlag, upperLimitFlag, slippageFlag,
			selectFlag, ttlFlag, ttlOffsetFlag,
			utxosFlag, paramsFlag,
		},
	}
	submitCommand = cli.Command{
		Name:  "submit",
		Usage: "Sign a journaled build with the wallet and submit it",
		Action: func(ctx *cli.Context) error {
			return submit(ctx)
		},
		Flags: []cli.Flag{idFlag},
	}
	historyCommand = cli.Command{
		Name:  "history",
		Usage: "List journaled builds, oldest first",
		Action: func(ctx *cli.Context) error {
			return history()
		},
	}
)

func initConfig(ctx *cli.Context) error {
	path := config.ConfigPath(cfg.DataDir)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Println("configuration written to", path)
	return nil
}

func analyze(ctx *cli.Context) error {
	order, ok := utxo.ParseOrder(ctx.String(orderFlag.Name))
	if !ok {
		return fmt.Errorf("unknown order %q", ctx.String(orderFlag.Name))
	}

	wallet, err := walletSource(cfg, ctx.String(utxosFlag.Name))
	if err != nil {
		return err
	}
	svc := payment.NewService(wallet, nil, nil)
	stats, err := svc.Analyze(ctx.Context)
	if err != nil {
		return err
	}
	if !ctx.Bool(listFlag.Name) {
		return printJSON(stats)
	}

	utxos, err := wallet.ListUnspent(ctx.Context)
	if err != nil {
		return err
	}
	return printJSON(struct {
		Stats utxo.Stats  `json:"stats"`
		UTXOs []utxo.UTXO `json:"utxos"`
	}{
		Stats: stats,
		UTXOs: utxo.Filter(utxos, utxo.FilterOptions{CleanOnly: ctx.Bool(cleanOnlyFlag.Name), Order: order}),
	})
}

// intentFlags are the build flags that shape the payment intent.
type intentFlags struct {
	Mode        string
	Amount      uint64
	AdaOnly     bool
	Exclude     []string
	MinKeep     uint64
	Fiat        string
	Rate        string
	UpperLimit  uint64
	SlippageBps uint
}

func (f intentFlags) intent() (mode.Intent, error) {
	kind, err := mode.ParseKind(f.Mode)
	if err != nil {
		return nil, err
	}
	switch kind {
	case mode.KindFixed:
		return mode.Fixed{Amount: f.Amount}, nil
	case mode.KindSweep:
		return mode.Sweep{AdaOnly: f.AdaOnly, Exclude: f.Exclude, MinKeep: f.MinKeep}, nil
	}
	if f.SlippageBps > math.MaxUint32 {
		return nil, fmt.Errorf("%w: slippage %d bps", mode.ErrInvalidRule, f.SlippageBps)
	}
	return mode.RateBased{
		FiatAmount:  f.Fiat,
		Rate:        f.Rate,
		UpperLimit:  f.UpperLimit,
		SlippageBps: uint32(f.SlippageBps),
	}, nil
}

func build(ctx *cli.Context) error {
	intent, err := intentFlags{
		Mode:        ctx.String(modeFlag.Name),
		Amount:      ctx.Uint64(amountFlag.Name),
		AdaOnly:     ctx.Bool(adaOnlyFlag.Name),
		Exclude:     ctx.StringSlice(excludeFlag.Name),
		MinKeep:     ctx.Uint64(minKeepFlag.Name),
		Fiat:        ctx.String(fiatFlag.Name),
		Rate:        ctx.String(rateFlag.Name),
		UpperLimit:  ctx.Uint64(upperLimitFlag.Name),
		SlippageBps: ctx.Uint(slippageFlag.Name),
	}.intent()
	if err != nil {
		return err
	}

	strategyName := cfg.Strategy
	if ctx.IsSet(strategyFlag.Name) {
		strategyName = ctx.String(strategyFlag.Name)
	}
	strategy, err := selection.ParseStrategy(strategyName)
	if err != nil {
		return err
	}
	ttlOffset := cfg.TTLOffset
	if ctx.IsSet(ttlOffsetFlag.Name) {
		ttlOffset = ctx.Uint64(ttlOffsetFlag.Name)
	}

	wallet, params, err := sources(cfg, ctx.String(utxosFlag.Name), ctx.String(paramsFlag.Name))
	if err != nil {
		return err
	}
	store, err := journal.OpenBoltStore(config.JournalPath(cfg.DataDir))
	if err != nil {
		return err
	}
	// nolint
	defer store.Close()

	svc := payment.NewService(wallet, params, store)
	if refs := ctx.StringSlice(selectFlag.Name); len(refs) > 0 {
		if _, err := svc.SelectRefs(ctx.Context, refs...); err != nil {
			return err
		}
	}

	receipt, err := svc.Build(ctx.Context, &payment.PaymentRequest{
		Intent:        intent,
		Strategy:      strategy,
		Destination:   ctx.String(toFlag.Name),
		ChangeAddress: ctx.String(changeFlag.Name),
		TTLOverride:   ctx.Uint64(ttlFlag.Name),
		TTLOffset:     ttlOffset,
	})
	if err != nil {
		return err
	}
	if err := printJSON(receipt); err != nil {
		return err
	}
	if f := receipt.Result.Failure; f != nil {
		return cli.Exit(fmt.Sprintf("build failed: %s", f.Kind), 2)
	}
	return nil
}

func submit(ctx *cli.Context) error {
	client, err := rpcClient(cfg)
	if err != nil {
		return err
	}
	store, err := journal.OpenBoltStore(config.JournalPath(cfg.DataDir))
	if err != nil {
		return err
	}
	// nolint
	defer store.Close()

	svc := payment.NewService(client, client, store)
	id := ctx.String(idFlag.Name)
	hash, err := svc.SignAndSubmit(ctx.Context, id)
	if err != nil {
		if errors.Is(err, journal.ErrAlreadySubmitted) {
			return cli.Exit(err.Error(), 2)
		}
		return err
	}
	return printJSON(map[string]string{"id": id, "tx_hash": hash})
}

func history() error {
	store, err := journal.OpenBoltStore(config.JournalPath(cfg.DataDir))
	if err != nil {
		return err
	}
	// nolint
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return err
	}
	return printJSON(records)
}
