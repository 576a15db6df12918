package selection

import "github.com/bitfsorg/paybuild-go/utxo"

// MaxBnBTries bounds the number of search nodes branch-and-bound visits
// before it gives up and falls back to CleanFirstGreedy.
const MaxBnBTries = 100000

// SelectBranchAndBound searches the clean candidates for the combination
// whose total exceeds target by the smallest amount, stopping at an exact
// match. Asset-bearing outputs are left to the greedy fallback.
func SelectBranchAndBound(available []utxo.UTXO, target uint64, alreadySelected []utxo.UTXO) ([]utxo.UTXO, error) {
	p, err := newPool(available, alreadySelected)
	if err != nil {
		return nil, err
	}
	if err := p.check(target); err != nil {
		return nil, err
	}
	if p.baseTotal >= target {
		return p.start(0), nil
	}

	clean := utxo.Filter(p.candidates, utxo.FilterOptions{
		CleanOnly: true,
		Order:     utxo.OrderValueDesc,
	})
	s := newSearch(clean, target-p.baseTotal)
	s.run(0, 0)
	if !s.found {
		return SelectCleanFirstGreedy(available, target, alreadySelected)
	}

	selected := p.start(len(s.best))
	for _, i := range s.best {
		selected = append(selected, clean[i])
	}
	return selected, nil
}

type search struct {
	values []uint64
	suffix []uint64 // suffix[i] = sum(values[i:])
	need   uint64
	tries  int

	cur       []int
	best      []int
	bestWaste uint64
	found     bool
}

func newSearch(candidates []utxo.UTXO, need uint64) *search {
	s := &search{
		values: make([]uint64, len(candidates)),
		suffix: make([]uint64, len(candidates)+1),
		need:   need,
	}
	for i, u := range candidates {
		s.values[i] = u.Amount
	}
	// No overflow: the candidates are a subset of a pool whose total fits.
	for i := len(s.values) - 1; i >= 0; i-- {
		s.suffix[i] = s.suffix[i+1] + s.values[i]
	}
	return s
}

// run explores index i with the running sum. It returns true when the
// search must stop, either on an exact match or when the budget is spent.
func (s *search) run(i int, sum uint64) bool {
	s.tries++
	if s.tries > MaxBnBTries {
		return true
	}
	if sum >= s.need {
		waste := sum - s.need
		if !s.found || waste < s.bestWaste {
			s.found = true
			s.bestWaste = waste
			s.best = append(s.best[:0], s.cur...)
		}
		return waste == 0
	}
	if i == len(s.values) || sum+s.suffix[i] < s.need {
		return false
	}

	next := sum + s.values[i]
	if !s.found || next < s.need || next-s.need < s.bestWaste {
		s.cur = append(s.cur, i)
		stop := s.run(i+1, next)
		s.cur = s.cur[:len(s.cur)-1]
		if stop {
			return true
		}
	}
	return s.run(i+1, sum)
}
