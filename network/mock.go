package network

import (
	"context"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// MockWallet is a test double for WalletService.
// All function fields must be set before the corresponding method is called.
type MockWallet struct {
	ListUnspentFn   func(ctx context.Context) ([]utxo.UTXO, error)
	ChangeAddressFn func(ctx context.Context) (string, error)
	SignTxFn        func(ctx context.Context, txHex string) (string, error)
	SubmitTxFn      func(ctx context.Context, signedTxHex string) (string, error)
}

func (m *MockWallet) ListUnspent(ctx context.Context) ([]utxo.UTXO, error) {
	return m.ListUnspentFn(ctx)
}
func (m *MockWallet) ChangeAddress(ctx context.Context) (string, error) {
	return m.ChangeAddressFn(ctx)
}
func (m *MockWallet) SignTx(ctx context.Context, txHex string) (string, error) {
	return m.SignTxFn(ctx, txHex)
}
func (m *MockWallet) SubmitTx(ctx context.Context, signedTxHex string) (string, error) {
	return m.SubmitTxFn(ctx, signedTxHex)
}

// MockParams is a test double for ParamsProvider.
type MockParams struct {
	ProtocolParametersFn func(ctx context.Context) (*fee.ProtocolParameters, error)
}

func (m *MockParams) ProtocolParameters(ctx context.Context) (*fee.ProtocolParameters, error) {
	return m.ProtocolParametersFn(ctx)
}
