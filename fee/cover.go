package fee

import (
	"fmt"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// SelectFunc selects outputs whose total reaches need.
type SelectFunc func(need uint64) ([]utxo.UTXO, error)

// Plan describes what a selection must pay for.
type Plan struct {
	Target     uint64 // amount sent to the destination
	Outputs    int    // outputs counted for the fee, change included
	Candidates int    // number of available outputs; bounds the loop
}

// Coverage is a converged selection with its fee.
type Coverage struct {
	Inputs []utxo.UTXO
	Total  uint64
	Fee    uint64
	// Assets held by the inputs; they must travel in the change output.
	Assets utxo.Assets
	// Reserve is MinUTXOValue when Assets is non-empty, else zero.
	Reserve uint64
	Passes  int
}

// MaxIterations returns the pass limit of Cover for a plan. The assumed input
// count grows on every failed pass, plus one pass for the asset reserve.
func MaxIterations(plan Plan) int {
	return plan.Candidates + 2
}

// Cover runs selection until the selected total pays for the target, the fee
// of the selected inputs and, when assets are carried, a change output able to
// hold them. It starts from the fee of a transaction with no inputs.
func Cover(p *ProtocolParameters, plan Plan, selectFn SelectFunc) (*Coverage, error) {
	var (
		assumedInputs int
		assumedAssets int
		reserve       uint64
	)

	limit := MaxIterations(plan)
	for pass := 1; pass <= limit; pass++ {
		estimate, err := ForShape(p, assumedInputs, plan.Outputs, assumedAssets)
		if err != nil {
			return nil, err
		}
		need, err := requirement(plan.Target, estimate, reserve)
		if err != nil {
			return nil, err
		}

		selected, err := selectFn(need)
		if err != nil {
			return nil, err
		}
		total, err := utxo.Sum(selected)
		if err != nil {
			return nil, err
		}
		assets, err := utxo.MergeAssets(selected)
		if err != nil {
			return nil, err
		}

		var actualReserve uint64
		if assets.Count() > 0 {
			actualReserve = p.MinUTXOValue
		}
		actualFee, err := ForShape(p, len(selected), plan.Outputs, assets.Count())
		if err != nil {
			return nil, err
		}
		actualNeed, err := requirement(plan.Target, actualFee, actualReserve)
		if err != nil {
			return nil, err
		}

		if total >= actualNeed {
			return &Coverage{
				Inputs:  selected,
				Total:   total,
				Fee:     actualFee,
				Assets:  assets,
				Reserve: actualReserve,
				Passes:  pass,
			}, nil
		}

		assumedInputs = max(len(selected), assumedInputs+1)
		assumedAssets = max(assets.Count(), assumedAssets)
		reserve = max(actualReserve, reserve)
	}
	return nil, fmt.Errorf("%w after %d passes", ErrNotConverged, limit)
}

func requirement(target, fee, reserve uint64) (uint64, error) {
	need, err := utxo.Add(target, fee)
	if err != nil {
		return 0, err
	}
	return utxo.Add(need, reserve)
}

// Settlement is the final split of the selected total.
type Settlement struct {
	Fee       uint64
	Change    uint64
	HasChange bool
	Folded    uint64 // dust change moved into the fee
}

// SettleChange splits total into target, fee and change. Change below
// MinUTXOValue is folded into the fee unless it has to carry assets.
func SettleChange(p *ProtocolParameters, total, target, estimate uint64, carriesAssets bool) (Settlement, error) {
	spent, err := utxo.Add(target, estimate)
	if err != nil {
		return Settlement{}, err
	}
	change, err := utxo.Sub(total, spent)
	if err != nil {
		return Settlement{}, err
	}

	switch {
	case change == 0 && !carriesAssets:
		return Settlement{Fee: estimate}, nil
	case change < p.MinUTXOValue:
		if carriesAssets {
			return Settlement{}, fmt.Errorf("%w: %d < %d with assets", ErrDustChange, change, p.MinUTXOValue)
		}
		return Settlement{Fee: estimate + change, Folded: change}, nil
	default:
		return Settlement{Fee: estimate, Change: change, HasChange: true}, nil
	}
}
