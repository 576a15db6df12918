// Package fee implements the linear fee model, the fee and selection
// convergence loop and the change/dust policy.
package fee

import "fmt"

// ProtocolParameters are the ledger parameters a build depends on. They are
// supplied fresh for every build.
type ProtocolParameters struct {
	FeeCoefficientA      uint64 `json:"min_fee_a"`      // per-byte fee
	FeeCoefficientB      uint64 `json:"min_fee_b"`      // constant fee
	MinUTXOValue         uint64 `json:"min_utxo_value"` // smallest output worth creating
	MaxTxSize            uint64 `json:"max_tx_size"`    // bytes
	PoolDeposit          uint64 `json:"pool_deposit"`
	KeyDeposit           uint64 `json:"key_deposit"`
	CurrentTimeReference uint64 `json:"current_slot"`
}

// Validate rejects parameters no transaction could be built against.
func (p *ProtocolParameters) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrInvalidParams)
	}
	if p.MaxTxSize == 0 {
		return fmt.Errorf("%w: max tx size is zero", ErrInvalidParams)
	}
	return nil
}
