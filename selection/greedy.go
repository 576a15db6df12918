package selection

import "github.com/bitfsorg/paybuild-go/utxo"

// SelectCleanFirstGreedy spends clean outputs largest first and falls back
// to asset-bearing outputs, also largest first, only when the clean ones
// cannot reach target.
func SelectCleanFirstGreedy(available []utxo.UTXO, target uint64, alreadySelected []utxo.UTXO) ([]utxo.UTXO, error) {
	p, err := newPool(available, alreadySelected)
	if err != nil {
		return nil, err
	}
	if err := p.check(target); err != nil {
		return nil, err
	}
	ordered := utxo.Filter(p.candidates, utxo.FilterOptions{Order: utxo.OrderCleanFirst})
	selected, _ := p.accumulate(ordered, target)
	return selected, nil
}

// SelectLargestFirst spends outputs largest first regardless of assets.
func SelectLargestFirst(available []utxo.UTXO, target uint64, alreadySelected []utxo.UTXO) ([]utxo.UTXO, error) {
	p, err := newPool(available, alreadySelected)
	if err != nil {
		return nil, err
	}
	if err := p.check(target); err != nil {
		return nil, err
	}
	ordered := utxo.Filter(p.candidates, utxo.FilterOptions{Order: utxo.OrderValueDesc})
	selected, _ := p.accumulate(ordered, target)
	return selected, nil
}
