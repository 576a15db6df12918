// Package journal records every build outcome so that it can be audited and
// later signed and submitted.
package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/bitfsorg/paybuild-go/tx"
)

// Record is one journaled build.
type Record struct {
	ID              string         `json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	Mode            string         `json:"mode"`
	Strategy        string         `json:"strategy,omitempty"`
	Success         bool           `json:"success"`
	FailureKind     tx.FailureKind `json:"failure_kind,omitempty"`
	FailureMessage  string         `json:"failure_message,omitempty"`
	TxHash          string         `json:"tx_hash,omitempty"`
	TxHex           string         `json:"tx_hex,omitempty"`
	Fee             uint64         `json:"fee"`
	AmountSent      uint64         `json:"amount_sent"`
	Change          uint64         `json:"change"`
	Rate            string         `json:"rate,omitempty"`
	FiatAmount      string         `json:"fiat_amount,omitempty"`
	SubmittedTxHash string         `json:"submitted_tx_hash,omitempty"`
	SubmittedAt     *time.Time     `json:"submitted_at,omitempty"`
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// NewRecord builds a record for a build result. Mode is taken from res when
// set, so failed builds pass it explicitly.
func NewRecord(id string, now time.Time, mode string, res *tx.BuildResult) *Record {
	r := &Record{
		ID:        id,
		CreatedAt: now.UTC(),
		Mode:      mode,
		Success:   res.Success,
		Strategy:  res.Strategy,
		TxHash:    res.TxHash,
		TxHex:     res.TxHex,
		Fee:       res.Fee,
	}
	if res.Mode != "" {
		r.Mode = res.Mode
	}
	if res.Summary != nil {
		r.AmountSent = res.Summary.AmountSent
		r.Change = res.Summary.Change
		r.Rate = res.Summary.Rate
		r.FiatAmount = res.Summary.FiatAmount
	}
	if res.Failure != nil {
		r.FailureKind = res.Failure.Kind
		r.FailureMessage = res.Failure.Message
	}
	return r
}

// Submittable reports whether the record holds an unsubmitted transaction.
func (r *Record) Submittable() error {
	if !r.Success || r.TxHex == "" {
		return ErrNotSubmittable
	}
	if r.SubmittedTxHash != "" {
		return ErrAlreadySubmitted
	}
	return nil
}

// Store persists build records.
type Store interface {
	// Put stores a new record.
	Put(r *Record) error

	// Get retrieves a record by id.
	Get(id string) (*Record, error)

	// List returns all records, oldest first.
	List() ([]*Record, error)

	// MarkSubmitted records the hash a submitted transaction was accepted under.
	MarkSubmitted(id, txHash string, at time.Time) error
}
