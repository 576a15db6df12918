// Package selection chooses which unspent outputs fund a payment.
//
// Strategies form a closed set. Each one is a pure function of the available
// outputs, the target amount and the outputs the caller has already
// selected; identical inputs always produce the identical selection.
package selection

import (
	"fmt"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// Strategy identifies a coin selection algorithm.
type Strategy int

const (
	// CleanFirstGreedy spends asset-free outputs largest first and touches
	// asset-bearing outputs only when the clean ones fall short.
	CleanFirstGreedy Strategy = iota
	// BranchAndBound searches for the combination with the least excess.
	BranchAndBound
	// LargestFirst spends all outputs largest first.
	LargestFirst
	// Optimal tries CleanFirstGreedy, BranchAndBound and LargestFirst in
	// that order and keeps the first sufficient selection.
	Optimal
)

// Descriptor names and describes a strategy for reporting.
type Descriptor struct {
	Strategy    Strategy `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

var descriptors = []Descriptor{
	{CleanFirstGreedy, "clean-first-greedy", "Largest asset-free outputs first; asset-bearing outputs only as a fallback"},
	{BranchAndBound, "branch-and-bound", "Bounded search for the combination closest to the target, avoiding change"},
	{LargestFirst, "largest-first", "All outputs largest first, regardless of assets"},
	{Optimal, "optimal", "clean-first-greedy, then branch-and-bound, then largest-first"},
}

// Strategies returns the descriptors of every strategy.
func Strategies() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

func (s Strategy) String() string {
	for _, d := range descriptors {
		if d.Strategy == s {
			return d.Name
		}
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name to its value. The empty name is Optimal.
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return Optimal, nil
	}
	for _, d := range descriptors {
		if d.Name == name {
			return d.Strategy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Result is a successful selection.
type Result struct {
	Inputs   []utxo.UTXO // selection order; preselected outputs first
	Total    uint64
	Strategy Strategy // the algorithm that produced Inputs
}

// Select runs strategy s. It fails with ErrInsufficientFunds when even all
// available outputs cannot reach target.
func Select(s Strategy, available []utxo.UTXO, target uint64, alreadySelected []utxo.UTXO) (*Result, error) {
	var order []Strategy
	switch s {
	case CleanFirstGreedy, BranchAndBound, LargestFirst:
		order = []Strategy{s}
	case Optimal:
		order = []Strategy{CleanFirstGreedy, BranchAndBound, LargestFirst}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}

	var lastErr error
	for _, kind := range order {
		inputs, err := run(kind, available, target, alreadySelected)
		if err != nil {
			lastErr = err
			continue
		}
		total, err := utxo.Sum(inputs)
		if err != nil {
			return nil, err
		}
		return &Result{Inputs: inputs, Total: total, Strategy: kind}, nil
	}
	return nil, lastErr
}

func run(kind Strategy, available []utxo.UTXO, target uint64, already []utxo.UTXO) ([]utxo.UTXO, error) {
	switch kind {
	case CleanFirstGreedy:
		return SelectCleanFirstGreedy(available, target, already)
	case BranchAndBound:
		return SelectBranchAndBound(available, target, already)
	case LargestFirst:
		return SelectLargestFirst(available, target, already)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(kind))
}

// pool splits available into the preselected outputs that are still
// available (in caller order) and the remaining candidates (discovery order).
// Preselected references missing from available are dropped.
type pool struct {
	base       []utxo.UTXO
	baseTotal  uint64
	candidates []utxo.UTXO
	total      uint64 // baseTotal + sum(candidates)
}

func newPool(available []utxo.UTXO, already []utxo.UTXO) (*pool, error) {
	avail := utxo.Dedup(available)
	index := make(map[string]int, len(avail))
	for i, u := range avail {
		index[u.Ref()] = i
	}

	p := &pool{}
	picked := make(utxo.RefSet, len(already))
	for _, u := range already {
		ref := u.Ref()
		i, ok := index[ref]
		if !ok || picked.Has(ref) {
			continue
		}
		picked[ref] = struct{}{}
		p.base = append(p.base, avail[i])
	}
	for _, u := range avail {
		if !picked.Has(u.Ref()) {
			p.candidates = append(p.candidates, u)
		}
	}

	var err error
	if p.baseTotal, err = utxo.Sum(p.base); err != nil {
		return nil, err
	}
	rest, err := utxo.Sum(p.candidates)
	if err != nil {
		return nil, err
	}
	if p.total, err = utxo.Add(p.baseTotal, rest); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pool) check(target uint64) error {
	if p.total < target {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, target, p.total)
	}
	return nil
}

// start returns a fresh selection holding the preselected outputs.
func (p *pool) start(extra int) []utxo.UTXO {
	selected := make([]utxo.UTXO, len(p.base), len(p.base)+extra)
	copy(selected, p.base)
	return selected
}

// accumulate appends ordered candidates to the preselected base until the
// running total reaches target.
func (p *pool) accumulate(ordered []utxo.UTXO, target uint64) ([]utxo.UTXO, bool) {
	selected := p.start(len(ordered))
	total := p.baseTotal
	if total >= target {
		return selected, true
	}
	for _, u := range ordered {
		selected = append(selected, u)
		total += u.Amount // bounded by p.total, checked in newPool
		if total >= target {
			return selected, true
		}
	}
	return nil, false
}
