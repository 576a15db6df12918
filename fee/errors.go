package fee

import "errors"

var (
	// ErrInvalidParams indicates unusable protocol parameters.
	ErrInvalidParams = errors.New("fee: invalid protocol parameters")

	// ErrNotConverged indicates the fee and selection loop ran out of passes.
	ErrNotConverged = errors.New("fee: selection did not converge")

	// ErrDustChange indicates change below the minimum output value that
	// cannot be folded into the fee because it must carry assets.
	ErrDustChange = errors.New("fee: change below minimum output value")
)
