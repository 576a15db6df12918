package payment

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("payment: required parameter is nil")

	// ErrNoJournal indicates an operation that needs the build journal was
	// called on a service without one.
	ErrNoJournal = errors.New("payment: no journal configured")

	// ErrUnknownRef indicates a selected reference is not among the
	// wallet's unspent outputs.
	ErrUnknownRef = errors.New("payment: reference not in wallet")
)
