package journal

import "errors"

var (
	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("journal: required parameter is nil")

	// ErrNotFound indicates no record exists for the id.
	ErrNotFound = errors.New("journal: record not found")

	// ErrDuplicate indicates a record with this id already exists.
	ErrDuplicate = errors.New("journal: duplicate record")

	// ErrNotSubmittable indicates the record holds no transaction to submit.
	ErrNotSubmittable = errors.New("journal: record has no transaction")

	// ErrAlreadySubmitted indicates the record was already submitted.
	ErrAlreadySubmitted = errors.New("journal: already submitted")
)
