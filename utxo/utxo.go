// Package utxo models unspent outputs of the ledger and provides read-only
// analytics and filtering over UTXO sets.
package utxo

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// TxHashLen is the length of a transaction hash in bytes.
const TxHashLen = 32

// Assets maps policy id (hex) to asset name (hex) to quantity.
type Assets map[string]map[string]uint64

// UTXO represents an unspent transaction output observed in a wallet.
type UTXO struct {
	TxHash      string `json:"tx_hash"` // 32 bytes, hex
	OutputIndex uint32 `json:"output_index"`
	Address     string `json:"address"`          // raw address bytes, hex
	Amount      uint64 `json:"amount"`           // base units
	Assets      Assets `json:"assets,omitempty"` // multi-asset holdings
}

// Ref returns the "txhash#index" reference identifying the output. The hash
// is lower-cased, so hex spellings of one outpoint share a reference.
func (u UTXO) Ref() string {
	return strings.ToLower(u.TxHash) + "#" + strconv.FormatUint(uint64(u.OutputIndex), 10)
}

// IsClean reports whether the output holds only the base asset.
func (u UTXO) IsClean() bool {
	for _, names := range u.Assets {
		for _, qty := range names {
			if qty > 0 {
				return false
			}
		}
	}
	return true
}

// AssetCount returns the number of distinct non-zero assets in the output.
func (u UTXO) AssetCount() int {
	n := 0
	for _, names := range u.Assets {
		for _, qty := range names {
			if qty > 0 {
				n++
			}
		}
	}
	return n
}

// Validate checks the reference and address encodings.
func (u UTXO) Validate() error {
	b, err := hex.DecodeString(u.TxHash)
	if err != nil || len(b) != TxHashLen {
		return fmt.Errorf("%w: tx hash %q", ErrInvalidUTXO, u.TxHash)
	}
	if _, err := hex.DecodeString(u.Address); err != nil || u.Address == "" {
		return fmt.Errorf("%w: address of %s", ErrInvalidUTXO, u.Ref())
	}
	for policy, names := range u.Assets {
		if _, err := hex.DecodeString(policy); err != nil {
			return fmt.Errorf("%w: policy id %q", ErrInvalidUTXO, policy)
		}
		for name := range names {
			if _, err := hex.DecodeString(name); err != nil {
				return fmt.Errorf("%w: asset name %q", ErrInvalidUTXO, name)
			}
		}
	}
	return nil
}

// ParseRef splits a "txhash#index" reference.
func ParseRef(ref string) (string, uint32, error) {
	hash, idx, ok := strings.Cut(ref, "#")
	if !ok || hash == "" {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	n, err := strconv.ParseUint(idx, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %w", ErrInvalidRef, ref, err)
	}
	return strings.ToLower(hash), uint32(n), nil
}

// NormalizeRef lower-cases the hash part of a reference. Malformed
// references are returned unchanged.
func NormalizeRef(ref string) string {
	hash, idx, ok := strings.Cut(ref, "#")
	if !ok {
		return ref
	}
	return strings.ToLower(hash) + "#" + idx
}

// RefSet is a set of output references.
type RefSet map[string]struct{}

// NewRefSet builds a RefSet from references.
func NewRefSet(refs ...string) RefSet {
	s := make(RefSet, len(refs))
	for _, r := range refs {
		s[NormalizeRef(r)] = struct{}{}
	}
	return s
}

// Has reports whether ref is in the set.
func (s RefSet) Has(ref string) bool {
	_, ok := s[NormalizeRef(ref)]
	return ok
}

// Refs returns the references of utxos in order.
func Refs(utxos []UTXO) []string {
	refs := make([]string, len(utxos))
	for i, u := range utxos {
		refs[i] = u.Ref()
	}
	return refs
}

// Contains reports whether utxos holds an output with the given reference.
func Contains(utxos []UTXO, ref string) bool {
	ref = NormalizeRef(ref)
	for _, u := range utxos {
		if u.Ref() == ref {
			return true
		}
	}
	return false
}

// Dedup returns utxos with later duplicates of a reference removed.
func Dedup(utxos []UTXO) []UTXO {
	seen := make(RefSet, len(utxos))
	out := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		ref := u.Ref()
		if seen.Has(ref) {
			continue
		}
		seen[ref] = struct{}{}
		out = append(out, u)
	}
	return out
}

// MergeAssets sums the asset holdings of utxos into a fresh map.
func MergeAssets(utxos []UTXO) (Assets, error) {
	merged := make(Assets)
	for _, u := range utxos {
		for policy, names := range u.Assets {
			for name, qty := range names {
				if qty == 0 {
					continue
				}
				if merged[policy] == nil {
					merged[policy] = make(map[string]uint64)
				}
				sum, err := Add(merged[policy][name], qty)
				if err != nil {
					return nil, fmt.Errorf("%w: asset %s.%s", err, policy, name)
				}
				merged[policy][name] = sum
			}
		}
	}
	return merged, nil
}

// Count returns the number of distinct non-zero assets.
func (a Assets) Count() int {
	n := 0
	for _, names := range a {
		for _, qty := range names {
			if qty > 0 {
				n++
			}
		}
	}
	return n
}
