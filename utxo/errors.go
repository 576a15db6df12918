package utxo

import "errors"

var (
	// ErrOverflow indicates a base-unit computation exceeded the uint64 range.
	ErrOverflow = errors.New("utxo: amount overflow")

	// ErrUnderflow indicates a subtraction would produce a negative amount.
	ErrUnderflow = errors.New("utxo: amount underflow")

	// ErrInvalidRef indicates a malformed "txhash#index" reference.
	ErrInvalidRef = errors.New("utxo: invalid output reference")

	// ErrInvalidUTXO indicates an unspent output failed validation.
	ErrInvalidUTXO = errors.New("utxo: invalid unspent output")
)
