package tx

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// InputRef identifies a spent output.
type InputRef struct {
	TxHash string `json:"tx_hash"`
	Index  uint32 `json:"index"`
}

// Decoded is a parsed transaction.
type Decoded struct {
	Hash    string     `json:"hash"`
	Inputs  []InputRef `json:"inputs"`
	Outputs []Output   `json:"outputs"`
	Fee     uint64     `json:"fee"`
	TTL     uint64     `json:"ttl"`
	Signed  bool       `json:"signed"` // witness set is non-empty
}

func parseHex(txHex string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(txHex))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	return raw, nil
}

func decodeEnvelope(c *codec, raw []byte) (*wireTx, error) {
	var envelope wireTx
	if err := c.dec.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	if len(envelope.Body) == 0 || len(envelope.WitnessSet) == 0 {
		return nil, fmt.Errorf("%w: missing body or witness set", ErrInvalidTx)
	}
	return &envelope, nil
}

// DecodeTx parses a hex encoded transaction.
func DecodeTx(txHex string) (*Decoded, error) {
	raw, err := parseHex(txHex)
	if err != nil {
		return nil, err
	}
	c, err := getCodec()
	if err != nil {
		return nil, err
	}
	envelope, err := decodeEnvelope(c, raw)
	if err != nil {
		return nil, err
	}

	var body wireBody
	if err := c.dec.Unmarshal(envelope.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: body: %w", ErrInvalidTx, err)
	}
	if len(body.Inputs) == 0 || len(body.Outputs) == 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d outputs", ErrInvalidTx, len(body.Inputs), len(body.Outputs))
	}
	var witnesses map[uint64]cbor.RawMessage
	if err := c.dec.Unmarshal(envelope.WitnessSet, &witnesses); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWitnessSet, err)
	}

	d := &Decoded{
		Hash:    HashBody(envelope.Body),
		Inputs:  make([]InputRef, 0, len(body.Inputs)),
		Outputs: make([]Output, 0, len(body.Outputs)),
		Fee:     body.Fee,
		TTL:     body.TTL,
		Signed:  len(witnesses) > 0,
	}
	for _, in := range body.Inputs {
		d.Inputs = append(d.Inputs, InputRef{TxHash: hex.EncodeToString(in.TxHash), Index: in.Index})
	}
	for _, out := range body.Outputs {
		d.Outputs = append(d.Outputs, Output{
			Address: hex.EncodeToString(out.Address),
			Amount:  out.Coin,
			Assets:  fromMultiAsset(out.Assets),
		})
	}
	return d, nil
}
