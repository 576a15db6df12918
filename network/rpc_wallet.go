package network

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// Compile-time interface checks.
var (
	_ WalletService  = (*RPCClient)(nil)
	_ ParamsProvider = (*RPCClient)(nil)
)

// Bridge method names.
const (
	MethodListUnspent        = "wallet_listUnspent"
	MethodChangeAddress      = "wallet_changeAddress"
	MethodSignTx             = "wallet_signTx"
	MethodSubmitTx           = "wallet_submitTx"
	MethodProtocolParameters = "chain_protocolParameters"
)

// ListUnspent calls wallet_listUnspent and validates every returned output.
func (c *RPCClient) ListUnspent(ctx context.Context) ([]utxo.UTXO, error) {
	var results []utxo.UTXO
	if err := c.Call(ctx, MethodListUnspent, nil, &results); err != nil {
		return nil, err
	}
	for i := range results {
		if err := results[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: utxo %d: %w", ErrInvalidResponse, i, err)
		}
	}
	return results, nil
}

// ChangeAddress calls wallet_changeAddress.
func (c *RPCClient) ChangeAddress(ctx context.Context) (string, error) {
	var addr string
	if err := c.Call(ctx, MethodChangeAddress, nil, &addr); err != nil {
		return "", err
	}
	if _, err := hex.DecodeString(addr); err != nil || addr == "" {
		return "", fmt.Errorf("%w: change address %q", ErrInvalidResponse, addr)
	}
	return addr, nil
}

// SignTx calls `wallet_signTx "hex" true`; the flag asks for a partial
// signature, so only the witness set comes back. RPC errors are wrapped with
// ErrSignRejected.
func (c *RPCClient) SignTx(ctx context.Context, txHex string) (string, error) {
	var witnessHex string
	if err := c.Call(ctx, MethodSignTx, []interface{}{txHex, true}, &witnessHex); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignRejected, err)
	}
	if _, err := hex.DecodeString(witnessHex); err != nil || witnessHex == "" {
		return "", fmt.Errorf("%w: witness set is not hex", ErrInvalidResponse)
	}
	return witnessHex, nil
}

// SubmitTx calls `wallet_submitTx "hex"` and returns the transaction hash.
// RPC errors are wrapped with ErrSubmitRejected.
func (c *RPCClient) SubmitTx(ctx context.Context, signedTxHex string) (string, error) {
	var txHash string
	if err := c.Call(ctx, MethodSubmitTx, []interface{}{signedTxHex}, &txHash); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitRejected, err)
	}
	return txHash, nil
}

// ProtocolParameters calls chain_protocolParameters.
func (c *RPCClient) ProtocolParameters(ctx context.Context) (*fee.ProtocolParameters, error) {
	var p fee.ProtocolParameters
	if err := c.Call(ctx, MethodProtocolParameters, nil, &p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return &p, nil
}
