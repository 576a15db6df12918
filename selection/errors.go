package selection

import "errors"

var (
	// ErrInsufficientFunds indicates no combination of the available outputs
	// reaches the required total.
	ErrInsufficientFunds = errors.New("selection: insufficient funds")

	// ErrUnknownStrategy indicates an unrecognized strategy name or value.
	ErrUnknownStrategy = errors.New("selection: unknown strategy")
)
