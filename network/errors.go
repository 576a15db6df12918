package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not reach the wallet bridge.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates the bridge rejected the RPC credentials.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrSignRejected indicates the wallet declined to sign.
	ErrSignRejected = errors.New("network: signing rejected")

	// ErrSubmitRejected indicates the wallet or node rejected the transaction.
	ErrSubmitRejected = errors.New("network: submit rejected")

	// ErrInvalidResponse indicates the bridge returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")
)
