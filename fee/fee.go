package fee

import (
	"fmt"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// Size model constants, in bytes.
const (
	// BaseOverheadBytes covers the transaction envelope, fee and TTL fields.
	BaseOverheadBytes = 50
	// PerInputBytes covers an input reference plus its key witness.
	PerInputBytes = 140
	// PerOutputBytes covers an address and a coin value.
	PerOutputBytes = 65
	// PerAssetBytes covers one policy/name/quantity entry in an output.
	PerAssetBytes = 44
)

// EstimateSize returns the estimated size in bytes of a transaction with the
// given number of inputs, outputs and asset entries.
func EstimateSize(inputs, outputs, assets int) uint64 {
	return BaseOverheadBytes +
		uint64(inputs)*PerInputBytes +
		uint64(outputs)*PerOutputBytes +
		uint64(assets)*PerAssetBytes
}

// Fee returns a*size + b.
func Fee(p *ProtocolParameters, size uint64) (uint64, error) {
	variable, err := utxo.Mul(p.FeeCoefficientA, size)
	if err != nil {
		return 0, fmt.Errorf("fee for %d bytes: %w", size, err)
	}
	total, err := utxo.Add(variable, p.FeeCoefficientB)
	if err != nil {
		return 0, fmt.Errorf("fee for %d bytes: %w", size, err)
	}
	return total, nil
}

// ForShape returns the fee of a transaction of the given shape.
func ForShape(p *ProtocolParameters, inputs, outputs, assets int) (uint64, error) {
	return Fee(p, EstimateSize(inputs, outputs, assets))
}
