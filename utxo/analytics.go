package utxo

import (
	"sort"
)

// Stats holds aggregate figures over a UTXO collection.
type Stats struct {
	Count      int      `json:"count"`
	Total      uint64   `json:"total"`       // base units
	CleanCount int      `json:"clean_count"` // outputs without assets
	CleanTotal uint64   `json:"clean_total"`
	AssetCount int      `json:"asset_count"` // outputs carrying assets
	AssetIDs   []string `json:"asset_ids"`   // sorted "policy.name" identifiers
	Average    uint64   `json:"average"`     // floor(Total / Count)
}

// Analyze computes Stats for utxos. Totals that would overflow uint64 are
// reported as an error rather than wrapped.
func Analyze(utxos []UTXO) (Stats, error) {
	st := Stats{Count: len(utxos), AssetIDs: []string{}}
	ids := make(map[string]struct{})

	for _, u := range utxos {
		var err error
		if st.Total, err = Add(st.Total, u.Amount); err != nil {
			return Stats{}, err
		}
		if u.IsClean() {
			st.CleanCount++
			if st.CleanTotal, err = Add(st.CleanTotal, u.Amount); err != nil {
				return Stats{}, err
			}
			continue
		}
		st.AssetCount++
		for policy, names := range u.Assets {
			for name, qty := range names {
				if qty > 0 {
					ids[policy+"."+name] = struct{}{}
				}
			}
		}
	}

	for id := range ids {
		st.AssetIDs = append(st.AssetIDs, id)
	}
	sort.Strings(st.AssetIDs)

	if st.Count > 0 {
		st.Average = st.Total / uint64(st.Count)
	}
	return st, nil
}

// Order selects how Filter arranges its result.
type Order int

const (
	// OrderDiscovery keeps the order in which outputs were observed.
	OrderDiscovery Order = iota
	// OrderValueDesc sorts by amount, largest first.
	OrderValueDesc
	// OrderValueAsc sorts by amount, smallest first.
	OrderValueAsc
	// OrderCleanFirst puts asset-free outputs first, each group largest first.
	OrderCleanFirst
)

// FilterOptions holds the predicates applied by Filter.
type FilterOptions struct {
	CleanOnly  bool   // drop outputs that carry assets
	WithAssets bool   // keep only outputs that carry assets
	Exclude    RefSet // references to drop
	Order      Order
}

// Filter returns a filtered, reordered copy of utxos. Sorting is stable, so
// equal amounts keep their discovery order.
func Filter(utxos []UTXO, opts FilterOptions) []UTXO {
	out := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		if opts.CleanOnly && !u.IsClean() {
			continue
		}
		if opts.WithAssets && u.IsClean() {
			continue
		}
		if opts.Exclude != nil && opts.Exclude.Has(u.Ref()) {
			continue
		}
		out = append(out, u)
	}
	SortBy(out, opts.Order)
	return out
}

// SortBy reorders utxos in place.
func SortBy(utxos []UTXO, order Order) {
	switch order {
	case OrderValueDesc:
		sort.SliceStable(utxos, func(i, j int) bool {
			return utxos[i].Amount > utxos[j].Amount
		})
	case OrderValueAsc:
		sort.SliceStable(utxos, func(i, j int) bool {
			return utxos[i].Amount < utxos[j].Amount
		})
	case OrderCleanFirst:
		sort.SliceStable(utxos, func(i, j int) bool {
			ci, cj := utxos[i].IsClean(), utxos[j].IsClean()
			if ci != cj {
				return ci
			}
			return utxos[i].Amount > utxos[j].Amount
		})
	}
}

// ParseOrder maps a textual order name to an Order.
func ParseOrder(name string) (Order, bool) {
	switch name {
	case "", "discovery":
		return OrderDiscovery, true
	case "value-desc":
		return OrderValueDesc, true
	case "value-asc":
		return OrderValueAsc, true
	case "clean-first":
		return OrderCleanFirst, true
	}
	return OrderDiscovery, false
}
