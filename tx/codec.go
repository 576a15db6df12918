package tx

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// codec holds the deterministic CBOR modes. It is built once per process.
type codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var (
	codecOnce   sync.Once
	sharedCodec *codec
	codecErr    error
)

func getCodec() (*codec, error) {
	codecOnce.Do(func() {
		enc, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			codecErr = fmt.Errorf("%w: encode mode: %w", ErrSerialization, err)
			return
		}
		dec, err := cbor.DecOptions{
			DupMapKey:        cbor.DupMapKeyEnforcedAPF,
			MaxNestedLevels:  16,
			MaxArrayElements: 65536,
			MaxMapPairs:      65536,
		}.DecMode()
		if err != nil {
			codecErr = fmt.Errorf("%w: decode mode: %w", ErrSerialization, err)
			return
		}
		sharedCodec = &codec{enc: enc, dec: dec}
	})
	return sharedCodec, codecErr
}

// Wire shapes.
//
//	transaction = [body, witness_set, true, null]
//	body        = {0: [input], 1: [output], 2: fee, 3: ttl}
//	input       = [tx_hash, index]
//	output      = [address, coin] / [address, [coin, multiasset]]
//	multiasset  = {policy_id => {asset_name => quantity}}

type wireTx struct {
	_          struct{} `cbor:",toarray"`
	Body       cbor.RawMessage
	WitnessSet cbor.RawMessage
	Valid      bool
	AuxData    cbor.RawMessage
}

type wireBody struct {
	Inputs  []wireInput  `cbor:"0,keyasint"`
	Outputs []wireOutput `cbor:"1,keyasint"`
	Fee     uint64       `cbor:"2,keyasint"`
	TTL     uint64       `cbor:"3,keyasint"`
}

type wireInput struct {
	_      struct{} `cbor:",toarray"`
	TxHash []byte
	Index  uint32
}

type multiAsset map[cbor.ByteString]map[cbor.ByteString]uint64

type wireValue struct {
	_      struct{} `cbor:",toarray"`
	Coin   uint64
	Assets multiAsset
}

type wireOutput struct {
	Address []byte
	Coin    uint64
	Assets  multiAsset
}

var (
	cborNull     = cbor.RawMessage{0xf6}
	emptyWitness = cbor.RawMessage{0xa0}
)

func (o wireOutput) MarshalCBOR() ([]byte, error) {
	c, err := getCodec()
	if err != nil {
		return nil, err
	}
	if len(o.Assets) == 0 {
		return c.enc.Marshal([]any{o.Address, o.Coin})
	}
	return c.enc.Marshal([]any{o.Address, wireValue{Coin: o.Coin, Assets: o.Assets}})
}

func (o *wireOutput) UnmarshalCBOR(data []byte) error {
	c, err := getCodec()
	if err != nil {
		return err
	}
	var fields []cbor.RawMessage
	if err := c.dec.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 2 {
		return fmt.Errorf("output has %d fields", len(fields))
	}
	if err := c.dec.Unmarshal(fields[0], &o.Address); err != nil {
		return fmt.Errorf("output address: %w", err)
	}

	var coin uint64
	if err := c.dec.Unmarshal(fields[1], &coin); err == nil {
		o.Coin = coin
		o.Assets = nil
		return nil
	}
	var value wireValue
	if err := c.dec.Unmarshal(fields[1], &value); err != nil {
		return fmt.Errorf("output value: %w", err)
	}
	o.Coin = value.Coin
	o.Assets = value.Assets
	return nil
}

func toMultiAsset(assets utxo.Assets) (multiAsset, error) {
	if assets.Count() == 0 {
		return nil, nil
	}
	out := make(multiAsset, len(assets))
	for policy, names := range assets {
		pid, err := hex.DecodeString(policy)
		if err != nil {
			return nil, fmt.Errorf("%w: policy id %q", ErrSerialization, policy)
		}
		for name, qty := range names {
			if qty == 0 {
				continue
			}
			raw, err := hex.DecodeString(name)
			if err != nil {
				return nil, fmt.Errorf("%w: asset name %q", ErrSerialization, name)
			}
			key := cbor.ByteString(pid)
			if out[key] == nil {
				out[key] = make(map[cbor.ByteString]uint64)
			}
			out[key][cbor.ByteString(raw)] = qty
		}
	}
	return out, nil
}

func fromMultiAsset(ma multiAsset) utxo.Assets {
	if len(ma) == 0 {
		return nil
	}
	out := make(utxo.Assets, len(ma))
	for policy, names := range ma {
		p := hex.EncodeToString([]byte(policy))
		out[p] = make(map[string]uint64, len(names))
		for name, qty := range names {
			out[p][hex.EncodeToString([]byte(name))] = qty
		}
	}
	return out
}

// HashBody returns the hex blake2b-256 digest of encoded body bytes.
func HashBody(body []byte) string {
	sum := blake2b.Sum256(body)
	return hex.EncodeToString(sum[:])
}
