package tx

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("tx: required parameter is nil")

	// ErrSerialization indicates the transaction could not be encoded.
	ErrSerialization = errors.New("tx: serialization failed")

	// ErrTxTooLarge indicates the signed transaction would exceed the
	// maximum transaction size.
	ErrTxTooLarge = errors.New("tx: transaction too large")

	// ErrInvalidTx indicates malformed transaction bytes.
	ErrInvalidTx = errors.New("tx: invalid transaction")

	// ErrInvalidWitnessSet indicates a malformed witness set.
	ErrInvalidWitnessSet = errors.New("tx: invalid witness set")

	// ErrInvalidRule indicates a payment request violating a mode rule.
	ErrInvalidRule = errors.New("tx: invalid payment rule")

	// ErrNoEligibleUtxos indicates that no output qualifies for spending.
	ErrNoEligibleUtxos = errors.New("tx: no eligible utxos")

	// ErrParameterFetch indicates a failure to obtain wallet state or
	// protocol parameters.
	ErrParameterFetch = errors.New("tx: parameter fetch failed")
)
