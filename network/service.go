package network

import (
	"context"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// WalletService is the counterparty wallet. It owns the keys and the UTXO
// set; the builder only ever asks it for data, signatures and submission.
type WalletService interface {
	// ListUnspent returns the wallet's unspent outputs.
	ListUnspent(ctx context.Context) ([]utxo.UTXO, error)

	// ChangeAddress returns the hex encoded raw address for change outputs.
	ChangeAddress(ctx context.Context) (string, error)

	// SignTx signs an unsigned transaction and returns the hex encoded
	// witness set. The transaction itself is not modified.
	SignTx(ctx context.Context, txHex string) (string, error)

	// SubmitTx submits a signed transaction and returns its hash.
	SubmitTx(ctx context.Context, signedTxHex string) (string, error)
}

// ParamsProvider supplies the current protocol parameters.
type ParamsProvider interface {
	ProtocolParameters(ctx context.Context) (*fee.ProtocolParameters, error)
}
