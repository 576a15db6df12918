package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/bitfsorg/paybuild-go/config"
	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/network"
	"github.com/bitfsorg/paybuild-go/utxo"
)

var errOffline = errors.New("not available without a wallet bridge")

// fileWallet serves unspent outputs from a JSON file. Everything that needs
// the wallet's keys fails.
type fileWallet struct {
	path string
}

func (w *fileWallet) ListUnspent(ctx context.Context) ([]utxo.UTXO, error) {
	var utxos []utxo.UTXO
	if err := readJSON(w.path, &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

func (w *fileWallet) ChangeAddress(ctx context.Context) (string, error) {
	return "", fmt.Errorf("change address: %w (pass --change)", errOffline)
}

func (w *fileWallet) SignTx(ctx context.Context, txHex string) (string, error) {
	return "", fmt.Errorf("sign: %w", errOffline)
}

func (w *fileWallet) SubmitTx(ctx context.Context, signedTxHex string) (string, error) {
	return "", fmt.Errorf("submit: %w", errOffline)
}

// fileParams serves protocol parameters from a JSON file.
type fileParams struct {
	path string
}

func (p *fileParams) ProtocolParameters(ctx context.Context) (*fee.ProtocolParameters, error) {
	var params fee.ProtocolParameters
	if err := readJSON(p.path, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// sources picks the wallet and parameter provider: files when given, the
// wallet bridge otherwise. The bridge is only resolved when something needs it.
func sources(c config.Config, utxosPath, paramsPath string) (network.WalletService, network.ParamsProvider, error) {
	var (
		wallet network.WalletService
		params network.ParamsProvider
	)
	if utxosPath != "" {
		wallet = &fileWallet{path: utxosPath}
	}
	if paramsPath != "" {
		params = &fileParams{path: paramsPath}
	}
	if wallet != nil && params != nil {
		return wallet, params, nil
	}

	client, err := rpcClient(c)
	if err != nil {
		return nil, nil, err
	}
	if wallet == nil {
		wallet = client
	}
	if params == nil {
		params = client
	}
	return wallet, params, nil
}

// walletSource returns a file wallet when path is set and the bridge otherwise.
func walletSource(c config.Config, path string) (network.WalletService, error) {
	if path != "" {
		return &fileWallet{path: path}, nil
	}
	client, err := rpcClient(c)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func rpcClient(c config.Config) (*network.RPCClient, error) {
	resolved, err := config.ResolveRPC(c)
	if err != nil {
		return nil, err
	}
	return network.NewRPCClient(resolved), nil
}
