// Package mode turns a payment intent into a built transaction. Each intent
// resolves to a single target amount, then selection, fee settlement and
// assembly run the same way for every mode.
package mode

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// Kind names a payment mode.
type Kind string

const (
	KindFixed     Kind = "fixed"
	KindSweep     Kind = "sweep"
	KindRateBased Kind = "rate_based"
)

// ParseKind maps a mode name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindFixed, KindSweep, KindRateBased:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidRule, s)
}

// Intent is what the operator asks for.
type Intent interface {
	Kind() Kind
}

// Fixed pays an exact amount.
type Fixed struct {
	Amount uint64 `json:"amount"`
}

// Sweep spends every eligible output into a single destination output.
type Sweep struct {
	AdaOnly bool     `json:"ada_only"` // leave asset-bearing outputs alone
	Exclude []string `json:"exclude,omitempty"`
	// MinKeep is the smallest swept amount worth sending.
	MinKeep uint64 `json:"min_keep,omitempty"`
}

// RateBased pays a fiat amount converted at an exchange rate quoted in fiat
// per whole unit.
type RateBased struct {
	FiatAmount  string `json:"fiat_amount"`
	Rate        string `json:"rate"`
	UpperLimit  uint64 `json:"upper_limit,omitempty"`
	SlippageBps uint32 `json:"slippage_bps,omitempty"`
}

func (Fixed) Kind() Kind     { return KindFixed }
func (Sweep) Kind() Kind     { return KindSweep }
func (RateBased) Kind() Kind { return KindRateBased }

// UnitsPerWhole is the number of base units in one whole unit.
const UnitsPerWhole = 1_000_000

// MaxSlippageBps is the exclusive upper bound of RateBased.SlippageBps.
const MaxSlippageBps = 10_000

// Target converts the fiat amount to base units:
// floor(floor(fiat * 1e6 / rate) * (10000 - slippage) / 10000).
func (r RateBased) Target() (uint64, error) {
	fiat, err := parseDecimal("fiat amount", r.FiatAmount)
	if err != nil {
		return 0, err
	}
	rate, err := parseDecimal("rate", r.Rate)
	if err != nil {
		return 0, err
	}
	if r.SlippageBps >= MaxSlippageBps {
		return 0, fmt.Errorf("%w: slippage %d bps", ErrInvalidRule, r.SlippageBps)
	}

	q := new(big.Rat).Mul(fiat, new(big.Rat).SetInt64(UnitsPerWhole))
	q.Quo(q, rate)
	units := new(big.Int).Quo(q.Num(), q.Denom())
	if !units.IsUint64() {
		return 0, fmt.Errorf("%w: %s at %s overflows", ErrInvalidRule, r.FiatAmount, r.Rate)
	}

	target, err := utxo.MulDiv(units.Uint64(), MaxSlippageBps-uint64(r.SlippageBps), MaxSlippageBps)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	if target == 0 {
		return 0, fmt.Errorf("%w: %s at %s is zero", ErrInvalidRule, r.FiatAmount, r.Rate)
	}
	if r.UpperLimit > 0 && target > r.UpperLimit {
		return 0, fmt.Errorf("%w: target %d above upper limit %d", ErrInvalidRule, target, r.UpperLimit)
	}
	return target, nil
}

// parseDecimal accepts plain positive decimals such as "12.50".
func parseDecimal(field, s string) (*big.Rat, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/eE+-") {
		return nil, fmt.Errorf("%w: %s %q is not a decimal", ErrInvalidRule, field, s)
	}
	v, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q is not a decimal", ErrInvalidRule, field, s)
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive", ErrInvalidRule, field)
	}
	return v, nil
}
