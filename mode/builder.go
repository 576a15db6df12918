package mode

import (
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/selection"
	"github.com/bitfsorg/paybuild-go/tx"
	"github.com/bitfsorg/paybuild-go/utxo"
)

// Request is everything a build needs.
type Request struct {
	Intent          Intent
	Strategy        selection.Strategy
	Destination     string // raw address bytes, hex
	ChangeAddress   string // raw address bytes, hex
	Available       []utxo.UTXO
	AlreadySelected []utxo.UTXO
	Params          *fee.ProtocolParameters
	TTLOverride     uint64 // absolute slot; zero means derive from TTLOffset
	TTLOffset       uint64 // slots past the current one; zero means the default
}

// Builder builds transactions from requests. It holds no state; identical
// requests produce identical results.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build resolves the request's intent and builds the transaction. Nothing in
// req is modified. On error the result is the failed BuildResult classifying
// it; it never carries transaction data.
func (b *Builder) Build(req *Request) (*tx.BuildResult, error) {
	res, err := b.build(req)
	if err != nil {
		failed := tx.Failed(err)
		if req != nil {
			if in := Resolve(req.Intent); in != nil {
				failed.Mode = string(in.Kind())
			}
		}
		return failed, err
	}
	return res, nil
}

func (b *Builder) build(req *Request) (*tx.BuildResult, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	intent := Resolve(req.Intent)
	if intent == nil {
		return nil, fmt.Errorf("%w: intent", tx.ErrNilParam)
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	if err := checkAddress("destination", req.Destination); err != nil {
		return nil, err
	}
	for _, u := range req.Available {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	switch in := intent.(type) {
	case Fixed:
		if in.Amount == 0 {
			return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRule)
		}
		return b.pay(req, in.Amount, nil)
	case RateBased:
		target, err := in.Target()
		if err != nil {
			return nil, err
		}
		return b.pay(req, target, &tx.Summary{Rate: in.Rate, FiatAmount: in.FiatAmount})
	case Sweep:
		return b.sweep(req, in)
	}
	return nil, fmt.Errorf("%w: unsupported intent %T", ErrInvalidRule, intent)
}

// Resolve returns the intent by value. A nil pointer resolves to nil.
func Resolve(in Intent) Intent {
	switch v := in.(type) {
	case *Fixed:
		if v != nil {
			return *v
		}
		return nil
	case *Sweep:
		if v != nil {
			return *v
		}
		return nil
	case *RateBased:
		if v != nil {
			return *v
		}
		return nil
	}
	return in
}

// pay sends target to the destination and returns any change.
func (b *Builder) pay(req *Request, target uint64, extra *tx.Summary) (*tx.BuildResult, error) {
	p := req.Params
	if target < p.MinUTXOValue {
		return nil, fmt.Errorf("%w: amount %d below minimum output %d", ErrInvalidRule, target, p.MinUTXOValue)
	}
	if err := checkAddress("change address", req.ChangeAddress); err != nil {
		return nil, err
	}

	available := utxo.Dedup(req.Available)
	var used selection.Strategy
	cov, err := fee.Cover(p, fee.Plan{Target: target, Outputs: 2, Candidates: len(available)},
		func(need uint64) ([]utxo.UTXO, error) {
			res, err := selection.Select(req.Strategy, available, need, req.AlreadySelected)
			if err != nil {
				return nil, err
			}
			used = res.Strategy
			return res.Inputs, nil
		})
	if err != nil {
		return nil, err
	}

	carries := cov.Assets.Count() > 0
	settled, err := fee.SettleChange(p, cov.Total, target, cov.Fee, carries)
	if err != nil {
		return nil, err
	}

	outputs := []tx.Output{{Address: req.Destination, Amount: target}}
	if settled.HasChange {
		var assets utxo.Assets
		if carries {
			assets = cov.Assets
		}
		outputs = append(outputs, tx.Output{Address: req.ChangeAddress, Amount: settled.Change, Assets: assets})
	}

	summary := &tx.Summary{AmountSent: target, Change: settled.Change, Fee: settled.Fee}
	if extra != nil {
		summary.Rate = extra.Rate
		summary.FiatAmount = extra.FiatAmount
	}
	res, err := b.finish(req, cov.Inputs, outputs, settled.Fee, summary)
	if err != nil {
		return nil, err
	}
	res.Strategy = used.String()
	return res, nil
}

// sweep spends every eligible output into one destination output.
func (b *Builder) sweep(req *Request, in Sweep) (*tx.BuildResult, error) {
	p := req.Params
	eligible := utxo.Filter(utxo.Dedup(req.Available), utxo.FilterOptions{
		CleanOnly: in.AdaOnly,
		Exclude:   utxo.NewRefSet(in.Exclude...),
	})
	if len(eligible) == 0 {
		return nil, fmt.Errorf("%w: %d available, ada only %t, %d excluded",
			ErrNoEligibleUtxos, len(req.Available), in.AdaOnly, len(in.Exclude))
	}

	total, err := utxo.Sum(eligible)
	if err != nil {
		return nil, err
	}
	assets, err := utxo.MergeAssets(eligible)
	if err != nil {
		return nil, err
	}
	cost, err := fee.ForShape(p, len(eligible), 1, assets.Count())
	if err != nil {
		return nil, err
	}
	if total <= cost {
		return nil, fmt.Errorf("%w: swept total %d does not cover fee %d", ErrInvalidRule, total, cost)
	}
	amount := total - cost
	if amount < in.MinKeep {
		return nil, fmt.Errorf("%w: swept amount %d below min keep %d", ErrInvalidRule, amount, in.MinKeep)
	}
	if amount < p.MinUTXOValue {
		return nil, fmt.Errorf("%w: swept amount %d below minimum output %d", ErrInvalidRule, amount, p.MinUTXOValue)
	}

	out := tx.Output{Address: req.Destination, Amount: amount}
	if assets.Count() > 0 {
		out.Assets = assets
	}
	return b.finish(req, eligible, []tx.Output{out}, cost, &tx.Summary{AmountSent: amount, Fee: cost})
}

func (b *Builder) finish(req *Request, inputs []utxo.UTXO, outputs []tx.Output, txFee uint64, summary *tx.Summary) (*tx.BuildResult, error) {
	ttl, err := tx.TTL(req.Params, req.TTLOverride, req.TTLOffset)
	if err != nil {
		return nil, fmt.Errorf("%w: ttl: %w", ErrInvalidRule, err)
	}
	assembled, err := tx.Assemble(&tx.Draft{Inputs: inputs, Outputs: outputs, Fee: txFee, TTL: ttl}, req.Params)
	if err != nil {
		return nil, err
	}

	summary.Inputs = len(inputs)
	summary.Outputs = len(outputs)
	return &tx.BuildResult{
		Success:           true,
		TxHex:             assembled.Hex(),
		TxHash:            assembled.Hash,
		Fee:               txFee,
		TTL:               ttl,
		RequiredWitnesses: assembled.RequiredWitnesses,
		Summary:           summary,
		Inputs:            inputs,
		Mode:              string(Resolve(req.Intent).Kind()),
	}, nil
}

func checkAddress(field, addr string) error {
	raw, err := hex.DecodeString(addr)
	if err != nil || len(raw) == 0 {
		return fmt.Errorf("%w: %s %q is not a hex address", ErrInvalidRule, field, addr)
	}
	return nil
}
