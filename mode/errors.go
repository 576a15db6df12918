package mode

import "github.com/bitfsorg/paybuild-go/tx"

// Mode rule violations are reported with the tx failure sentinels so that
// tx.Classify maps them without importing this package.
var (
	// ErrInvalidRule indicates a request that breaks a mode rule.
	ErrInvalidRule = tx.ErrInvalidRule

	// ErrNoEligibleUtxos indicates that a sweep found nothing to spend.
	ErrNoEligibleUtxos = tx.ErrNoEligibleUtxos
)
