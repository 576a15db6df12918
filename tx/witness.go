package tx

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// AttachWitnesses merges a wallet supplied witness set into an unsigned
// transaction and returns the signed transaction hex. The body bytes are
// carried over untouched, so the transaction hash does not change.
// Entries in witnessHex replace entries of the same key already present.
func AttachWitnesses(unsignedHex, witnessHex string) (string, error) {
	raw, err := parseHex(unsignedHex)
	if err != nil {
		return "", err
	}
	wsRaw, err := hex.DecodeString(witnessHex)
	if err != nil || len(wsRaw) == 0 {
		return "", fmt.Errorf("%w: not hex", ErrInvalidWitnessSet)
	}
	c, err := getCodec()
	if err != nil {
		return "", err
	}
	envelope, err := decodeEnvelope(c, raw)
	if err != nil {
		return "", err
	}

	merged := make(map[uint64]cbor.RawMessage)
	if err := c.dec.Unmarshal(envelope.WitnessSet, &merged); err != nil {
		return "", fmt.Errorf("%w: existing: %w", ErrInvalidWitnessSet, err)
	}
	var supplied map[uint64]cbor.RawMessage
	if err := c.dec.Unmarshal(wsRaw, &supplied); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidWitnessSet, err)
	}
	if len(supplied) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidWitnessSet)
	}
	for k, v := range supplied {
		merged[k] = v
	}

	ws, err := c.enc.Marshal(merged)
	if err != nil {
		return "", fmt.Errorf("%w: witness set: %w", ErrSerialization, err)
	}
	envelope.WitnessSet = ws
	if len(envelope.AuxData) == 0 {
		envelope.AuxData = cborNull
	}
	signed, err := c.enc.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: transaction: %w", ErrSerialization, err)
	}
	return hex.EncodeToString(signed), nil
}
