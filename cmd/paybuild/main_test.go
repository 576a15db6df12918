package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/paybuild-go/config"
	"github.com/bitfsorg/paybuild-go/mode"
	"github.com/bitfsorg/paybuild-go/network"
)

func TestIntentFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   intentFlags
		want    mode.Intent
		wantErr error
	}{
		{
			name:  "fixed",
			flags: intentFlags{Mode: "fixed", Amount: 2_000_000},
			want:  mode.Fixed{Amount: 2_000_000},
		},
		{
			name:  "sweep",
			flags: intentFlags{Mode: "sweep", AdaOnly: true, Exclude: []string{"aa#0"}, MinKeep: 5},
			want:  mode.Sweep{AdaOnly: true, Exclude: []string{"aa#0"}, MinKeep: 5},
		},
		{
			name:  "rate based",
			flags: intentFlags{Mode: "rate_based", Fiat: "10", Rate: "0.298", UpperLimit: 40_000_000, SlippageBps: 50},
			want:  mode.RateBased{FiatAmount: "10", Rate: "0.298", UpperLimit: 40_000_000, SlippageBps: 50},
		},
		{
			name:    "unknown mode",
			flags:   intentFlags{Mode: "stream"},
			wantErr: mode.ErrInvalidRule,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.flags.intent()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	utxosPath := filepath.Join(dir, "utxos.json")
	paramsPath := filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(utxosPath, []byte(`[
		{"tx_hash": "0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a",
		 "output_index": 1, "address": "61aa", "amount": 3000000}
	]`), 0600))
	require.NoError(t, os.WriteFile(paramsPath, []byte(`{
		"min_fee_a": 44, "min_fee_b": 155381, "min_utxo_value": 1000000,
		"max_tx_size": 16384, "current_slot": 1000
	}`), 0600))

	wallet, params, err := sources(config.DefaultConfig(), utxosPath, paramsPath)
	require.NoError(t, err)

	utxos, err := wallet.ListUnspent(context.Background())
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	assert.Equal(t, uint32(1), utxos[0].OutputIndex)
	assert.Equal(t, uint64(3_000_000), utxos[0].Amount)

	p, err := params.ProtocolParameters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(44), p.FeeCoefficientA)
	assert.Equal(t, uint64(1000), p.CurrentTimeReference)

	_, err = wallet.ChangeAddress(context.Background())
	assert.ErrorIs(t, err, errOffline)
	_, err = wallet.SignTx(context.Background(), "00")
	assert.ErrorIs(t, err, errOffline)
}

func TestFileSources_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utxos.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	w := &fileWallet{path: path}
	_, err := w.ListUnspent(context.Background())
	assert.Error(t, err)

	w = &fileWallet{path: filepath.Join(t.TempDir(), "missing.json")}
	_, err = w.ListUnspent(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRPCClientNeedsURL(t *testing.T) {
	c := config.DefaultConfig()
	c.Network = "mainnet"
	_, err := rpcClient(c)
	assert.Error(t, err)

	c.RPC = network.RPCConfig{URL: "http://localhost:9000"}
	client, err := rpcClient(c)
	require.NoError(t, err)
	assert.NotNil(t, client)

	c = config.DefaultConfig()
	client, err = rpcClient(c)
	require.NoError(t, err, "preview has a preset")
	assert.NotNil(t, client)
}
