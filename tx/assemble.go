// Package tx assembles unsigned ledger transactions from a settled
// selection and reports build outcomes.
package tx

import (
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/utxo"
)

const (
	// DefaultTTLOffset is the validity window, in slots, added to the
	// current slot when no explicit TTL is requested.
	DefaultTTLOffset = uint64(7200)

	// WitnessBytes is the encoded size of one key witness.
	WitnessBytes = 101
)

// Output is a transaction output.
type Output struct {
	Address string      `json:"address"` // raw address bytes, hex
	Amount  uint64      `json:"amount"`
	Assets  utxo.Assets `json:"assets,omitempty"`
}

// Draft is a fully settled transaction awaiting encoding. Inputs keep the
// selection order; the destination output comes first and change second.
type Draft struct {
	Inputs  []utxo.UTXO
	Outputs []Output
	Fee     uint64
	TTL     uint64
}

// Assembled is an encoded unsigned transaction.
type Assembled struct {
	Raw               []byte
	Body              []byte
	Hash              string
	RequiredWitnesses int
}

// Hex returns the hex encoding of the raw transaction.
func (a *Assembled) Hex() string {
	return hex.EncodeToString(a.Raw)
}

// TTL returns override when non-zero, else the current slot plus offset
// (DefaultTTLOffset when offset is zero).
func TTL(p *fee.ProtocolParameters, override, offset uint64) (uint64, error) {
	if override != 0 {
		return override, nil
	}
	if offset == 0 {
		offset = DefaultTTLOffset
	}
	return utxo.Add(p.CurrentTimeReference, offset)
}

// RequiredWitnesses returns the number of distinct input addresses.
func RequiredWitnesses(inputs []utxo.UTXO) int {
	seen := make(map[string]struct{}, len(inputs))
	for _, in := range inputs {
		seen[in.Address] = struct{}{}
	}
	return len(seen)
}

// Assemble encodes d as an unsigned transaction with an empty witness set
// and checks the size it will have once signed.
func Assemble(d *Draft, p *fee.ProtocolParameters) (*Assembled, error) {
	if d == nil || p == nil {
		return nil, fmt.Errorf("%w: draft and protocol parameters", ErrNilParam)
	}
	if len(d.Inputs) == 0 || len(d.Outputs) == 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrSerialization, len(d.Inputs), len(d.Outputs))
	}
	c, err := getCodec()
	if err != nil {
		return nil, err
	}

	body := wireBody{
		Inputs:  make([]wireInput, 0, len(d.Inputs)),
		Outputs: make([]wireOutput, 0, len(d.Outputs)),
		Fee:     d.Fee,
		TTL:     d.TTL,
	}
	for _, in := range d.Inputs {
		hash, err := hex.DecodeString(in.TxHash)
		if err != nil || len(hash) != utxo.TxHashLen {
			return nil, fmt.Errorf("%w: input %s", ErrSerialization, in.Ref())
		}
		body.Inputs = append(body.Inputs, wireInput{TxHash: hash, Index: in.OutputIndex})
	}
	for i, out := range d.Outputs {
		addr, err := hex.DecodeString(out.Address)
		if err != nil || len(addr) == 0 {
			return nil, fmt.Errorf("%w: output %d address %q", ErrSerialization, i, out.Address)
		}
		assets, err := toMultiAsset(out.Assets)
		if err != nil {
			return nil, err
		}
		body.Outputs = append(body.Outputs, wireOutput{Address: addr, Coin: out.Amount, Assets: assets})
	}

	bodyBytes, err := c.enc.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrSerialization, err)
	}
	raw, err := c.enc.Marshal(wireTx{
		Body:       bodyBytes,
		WitnessSet: emptyWitness,
		Valid:      true,
		AuxData:    cborNull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: transaction: %w", ErrSerialization, err)
	}

	witnesses := RequiredWitnesses(d.Inputs)
	signedSize := uint64(len(raw)) + uint64(witnesses)*WitnessBytes
	if signedSize > p.MaxTxSize {
		return nil, fmt.Errorf("%w: %d bytes signed, max %d", ErrTxTooLarge, signedSize, p.MaxTxSize)
	}

	return &Assembled{
		Raw:               raw,
		Body:              bodyBytes,
		Hash:              HashBody(bodyBytes),
		RequiredWitnesses: witnesses,
	}, nil
}
