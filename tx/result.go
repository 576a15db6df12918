package tx

import (
	"errors"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/selection"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// FailureKind classifies a failed build.
type FailureKind string

const (
	InsufficientFunds     FailureKind = "insufficient_funds"
	NoEligibleUtxos       FailureKind = "no_eligible_utxos"
	InvalidRule           FailureKind = "invalid_rule"
	SerializationFailure  FailureKind = "serialization_failure"
	ParameterFetchFailure FailureKind = "parameter_fetch_failure"
	TxTooLarge            FailureKind = "tx_too_large"
	Internal              FailureKind = "internal"
)

// UserFacing reports whether the failure stems from the request or the
// wallet's funds rather than from the system.
func (k FailureKind) UserFacing() bool {
	switch k {
	case InsufficientFunds, NoEligibleUtxos, InvalidRule, TxTooLarge:
		return true
	}
	return false
}

// Summary describes the value flow of a built transaction.
type Summary struct {
	Inputs     int    `json:"inputs"`
	Outputs    int    `json:"outputs"`
	AmountSent uint64 `json:"amount_sent"`
	Change     uint64 `json:"change"`
	Fee        uint64 `json:"fee"`
	Rate       string `json:"rate,omitempty"`
	FiatAmount string `json:"fiat_amount,omitempty"`
}

// Failure describes why a build failed.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// BuildResult is the outcome of a build. A failed result carries no
// transaction data.
type BuildResult struct {
	Success           bool        `json:"success"`
	TxHex             string      `json:"tx_hex,omitempty"`
	TxHash            string      `json:"tx_hash,omitempty"`
	Fee               uint64      `json:"fee,omitempty"`
	TTL               uint64      `json:"ttl,omitempty"`
	RequiredWitnesses int         `json:"required_witnesses,omitempty"`
	Summary           *Summary    `json:"summary,omitempty"`
	Inputs            []utxo.UTXO `json:"inputs,omitempty"`
	Strategy          string      `json:"strategy,omitempty"`
	Mode              string      `json:"mode,omitempty"`
	Failure           *Failure    `json:"failure,omitempty"`
}

// Classify maps an error to its failure kind.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, selection.ErrInsufficientFunds):
		return InsufficientFunds
	case errors.Is(err, ErrNoEligibleUtxos):
		return NoEligibleUtxos
	case errors.Is(err, ErrInvalidRule),
		errors.Is(err, selection.ErrUnknownStrategy),
		errors.Is(err, utxo.ErrOverflow),
		errors.Is(err, utxo.ErrUnderflow):
		return InvalidRule
	case errors.Is(err, ErrTxTooLarge):
		return TxTooLarge
	case errors.Is(err, ErrParameterFetch), errors.Is(err, fee.ErrInvalidParams):
		return ParameterFetchFailure
	case errors.Is(err, ErrSerialization), errors.Is(err, utxo.ErrInvalidUTXO):
		return SerializationFailure
	}
	return Internal
}

// Failed returns the failed BuildResult for err.
func Failed(err error) *BuildResult {
	return &BuildResult{
		Failure: &Failure{Kind: Classify(err), Message: err.Error()},
	}
}
