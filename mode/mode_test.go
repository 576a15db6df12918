package mode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/paybuild-go/fee"
	"github.com/bitfsorg/paybuild-go/selection"
	"github.com/bitfsorg/paybuild-go/tx"
	"github.com/bitfsorg/paybuild-go/utxo"
)

const (
	walletAddr = "61aabbccddeeff00112233445566778899aabbccddeeff0011223344"
	destAddr   = "6100112233445566778899aabbccddeeff00112233445566778899aa"
	changeAddr = "61ffeeddccbbaa99887766554433221100ffeeddccbbaa9988776655"
)

func testParams() *fee.ProtocolParameters {
	return &fee.ProtocolParameters{
		FeeCoefficientA:      44,
		FeeCoefficientB:      155381,
		MinUTXOValue:         1_000_000,
		MaxTxSize:            16384,
		PoolDeposit:          500_000_000,
		KeyDeposit:           2_000_000,
		CurrentTimeReference: 1000,
	}
}

func testUTXO(hashByte string, idx uint32, amount uint64) utxo.UTXO {
	return utxo.UTXO{
		TxHash:      strings.Repeat(hashByte, 32),
		OutputIndex: idx,
		Address:     walletAddr,
		Amount:      amount,
	}
}

func tokenUTXO(hashByte string, amount uint64) utxo.UTXO {
	u := testUTXO(hashByte, 0, amount)
	u.Assets = utxo.Assets{"aa": {"746f6b": 10}}
	return u
}

// A, B and C hold 3, 2 and 1 ADA.
func abc() []utxo.UTXO {
	return []utxo.UTXO{
		testUTXO("0a", 0, 3_000_000),
		testUTXO("0b", 0, 2_000_000),
		testUTXO("0c", 0, 1_000_000),
	}
}

func request(intent Intent, available []utxo.UTXO) *Request {
	return &Request{
		Intent:        intent,
		Strategy:      selection.Optimal,
		Destination:   destAddr,
		ChangeAddress: changeAddr,
		Available:     available,
		Params:        testParams(),
	}
}

func build(t *testing.T, req *Request) *tx.BuildResult {
	t.Helper()
	res, err := NewBuilder().Build(req)
	require.NoError(t, err)
	require.True(t, res.Success)
	assertConserved(t, res)
	return res
}

func assertConserved(t *testing.T, res *tx.BuildResult) {
	t.Helper()
	total, err := utxo.Sum(res.Inputs)
	require.NoError(t, err)
	assert.Equal(t, total, res.Summary.AmountSent+res.Summary.Change+res.Summary.Fee)
	assert.Equal(t, res.Fee, res.Summary.Fee)
	assert.Equal(t, res.Inputs, utxo.Dedup(res.Inputs))

	decoded, err := tx.DecodeTx(res.TxHex)
	require.NoError(t, err)
	assert.Equal(t, res.TxHash, decoded.Hash)
	assert.Equal(t, res.Fee, decoded.Fee)
	assert.Equal(t, res.TTL, decoded.TTL)
	assert.Len(t, decoded.Inputs, res.Summary.Inputs)
	assert.Len(t, decoded.Outputs, res.Summary.Outputs)
	var out uint64
	for _, o := range decoded.Outputs {
		out += o.Amount
	}
	assert.Equal(t, total, out+decoded.Fee)
}

func TestFixed_DustChangeFolded(t *testing.T) {
	res := build(t, request(Fixed{Amount: 2_000_000}, abc()))

	require.Len(t, res.Inputs, 1)
	assert.Equal(t, "0a", res.Inputs[0].TxHash[:2])
	assert.Equal(t, uint64(1_000_000), res.Fee)
	assert.Equal(t, &tx.Summary{Inputs: 1, Outputs: 1, AmountSent: 2_000_000, Fee: 1_000_000}, res.Summary)
	assert.Equal(t, uint64(8200), res.TTL)
	assert.Equal(t, 1, res.RequiredWitnesses)
	assert.Equal(t, "clean-first-greedy", res.Strategy)
	assert.Equal(t, "fixed", res.Mode)
	assert.Len(t, res.TxHash, 64)
}

func TestFixed_ChangeBelowMinimumBecomesFee(t *testing.T) {
	available := []utxo.UTXO{
		testUTXO("0a", 0, 5_000_000),
		testUTXO("0b", 0, 3_000_000),
		testUTXO("0c", 0, 1_000_000),
	}
	res := build(t, request(Fixed{Amount: 4_000_000}, available))

	require.Len(t, res.Inputs, 1)
	assert.Equal(t, "0a", res.Inputs[0].TxHash[:2])
	assert.Equal(t, uint64(1_000_000), res.Fee)
	assert.Equal(t, &tx.Summary{Inputs: 1, Outputs: 1, AmountSent: 4_000_000, Fee: 1_000_000}, res.Summary)
}

func TestFixed_WithChange(t *testing.T) {
	res := build(t, request(Fixed{Amount: 1_500_000}, abc()))

	assert.Equal(t, uint64(169_461), res.Fee)
	assert.Equal(t, uint64(1_330_539), res.Summary.Change)
	assert.Equal(t, 2, res.Summary.Outputs)

	decoded, err := tx.DecodeTx(res.TxHex)
	require.NoError(t, err)
	assert.Equal(t, tx.Output{Address: destAddr, Amount: 1_500_000}, decoded.Outputs[0])
	assert.Equal(t, tx.Output{Address: changeAddr, Amount: 1_330_539}, decoded.Outputs[1])
}

func TestFixed_PreselectedFirst(t *testing.T) {
	req := request(Fixed{Amount: 1_500_000}, abc())
	req.Strategy = selection.CleanFirstGreedy
	req.AlreadySelected = []utxo.UTXO{testUTXO("0c", 0, 1_000_000), testUTXO("ff", 1, 9_000_000)}
	res := build(t, req)

	require.Len(t, res.Inputs, 2)
	assert.Equal(t, "0c", res.Inputs[0].TxHash[:2])
	assert.Equal(t, "0a", res.Inputs[1].TxHash[:2])
	assert.Equal(t, uint64(175_621), res.Fee)
	assert.Equal(t, uint64(2_324_379), res.Summary.Change)
}

func TestFixed_CarriesAssetsInChange(t *testing.T) {
	req := request(Fixed{Amount: 2_000_000}, []utxo.UTXO{tokenUTXO("0d", 5_000_000), testUTXO("0e", 0, 1_000_000)})
	req.Strategy = selection.LargestFirst
	res := build(t, req)

	assert.Equal(t, uint64(171_397), res.Fee)
	assert.Equal(t, uint64(2_828_603), res.Summary.Change)

	decoded, err := tx.DecodeTx(res.TxHex)
	require.NoError(t, err)
	require.Len(t, decoded.Outputs, 2)
	assert.Nil(t, decoded.Outputs[0].Assets)
	assert.Equal(t, utxo.Assets{"aa": {"746f6b": 10}}, decoded.Outputs[1].Assets)
}

func TestFixed_InsufficientFunds(t *testing.T) {
	_, err := NewBuilder().Build(request(Fixed{Amount: 6_000_000}, abc()))
	assert.ErrorIs(t, err, selection.ErrInsufficientFunds)
	assert.Equal(t, tx.InsufficientFunds, tx.Classify(err))
}

func TestFixed_Idempotent(t *testing.T) {
	req := request(Fixed{Amount: 2_500_000}, abc())
	first := build(t, req)
	for i := 0; i < 3; i++ {
		again := build(t, req)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, abc(), req.Available)
}

func TestFixed_PointerIntent(t *testing.T) {
	res := build(t, request(&Fixed{Amount: 2_000_000}, abc()))
	assert.Equal(t, "fixed", res.Mode)

	var nilFixed *Fixed
	_, err := NewBuilder().Build(request(nilFixed, abc()))
	assert.ErrorIs(t, err, tx.ErrNilParam)
}

func TestBuild_RuleViolations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Request)
		want     error
		wantKind tx.FailureKind
		wantMode string
	}{
		{"zero amount", func(r *Request) { r.Intent = Fixed{} }, ErrInvalidRule, tx.InvalidRule, "fixed"},
		{"dust amount", func(r *Request) { r.Intent = Fixed{Amount: 999_999} }, ErrInvalidRule, tx.InvalidRule, "fixed"},
		{"bad destination", func(r *Request) { r.Destination = "" }, ErrInvalidRule, tx.InvalidRule, "fixed"},
		{"bad change address", func(r *Request) { r.ChangeAddress = "xyz" }, ErrInvalidRule, tx.InvalidRule, "fixed"},
		{"missing params", func(r *Request) { r.Params = nil }, fee.ErrInvalidParams, tx.ParameterFetchFailure, "fixed"},
		{"zero max size", func(r *Request) { r.Params.MaxTxSize = 0 }, fee.ErrInvalidParams, tx.ParameterFetchFailure, "fixed"},
		{"tiny max size", func(r *Request) { r.Params.MaxTxSize = 150 }, tx.ErrTxTooLarge, tx.TxTooLarge, "fixed"},
		{"unknown strategy", func(r *Request) { r.Strategy = selection.Strategy(99) }, selection.ErrUnknownStrategy, tx.InvalidRule, "fixed"},
		{"bad utxo", func(r *Request) { r.Available[0].TxHash = "00" }, utxo.ErrInvalidUTXO, tx.SerializationFailure, "fixed"},
		{"sweep of nothing", func(r *Request) { r.Intent = Sweep{}; r.Available = nil }, ErrNoEligibleUtxos, tx.NoEligibleUtxos, "sweep"},
		{"nil intent", func(r *Request) { r.Intent = nil }, tx.ErrNilParam, tx.Internal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(Fixed{Amount: 2_000_000}, abc())
			tt.mutate(req)
			res, err := NewBuilder().Build(req)
			assert.ErrorIs(t, err, tt.want)
			require.NotNil(t, res)
			assert.False(t, res.Success)
			assert.Empty(t, res.TxHex)
			assert.Empty(t, res.Inputs)
			require.NotNil(t, res.Failure)
			assert.Equal(t, tt.wantKind, res.Failure.Kind)
			assert.Equal(t, tt.wantMode, res.Mode)
		})
	}

	res, err := NewBuilder().Build(nil)
	assert.ErrorIs(t, err, tx.ErrNilParam)
	require.NotNil(t, res)
	assert.False(t, res.Success)
}

func TestBuild_TTL(t *testing.T) {
	req := request(Fixed{Amount: 2_000_000}, abc())
	req.TTLOffset = 300
	assert.Equal(t, uint64(1300), build(t, req).TTL)

	req.TTLOverride = 5000
	assert.Equal(t, uint64(5000), build(t, req).TTL)
}

func TestSweep_AdaOnly(t *testing.T) {
	available := append(abc(), tokenUTXO("0d", 5_000_000))
	req := request(Sweep{AdaOnly: true}, available)
	req.ChangeAddress = ""
	req.AlreadySelected = []utxo.UTXO{tokenUTXO("0d", 5_000_000)}
	res := build(t, req)

	assert.Len(t, res.Inputs, 3)
	assert.Equal(t, uint64(178_921), res.Fee)
	assert.Equal(t, &tx.Summary{Inputs: 3, Outputs: 1, AmountSent: 5_821_079, Fee: 178_921}, res.Summary)
	assert.Equal(t, "sweep", res.Mode)

	decoded, err := tx.DecodeTx(res.TxHex)
	require.NoError(t, err)
	assert.Nil(t, decoded.Outputs[0].Assets)
}

func TestSweep_AllCarriesAssets(t *testing.T) {
	available := append(abc(), tokenUTXO("0d", 5_000_000))
	res := build(t, request(Sweep{}, available))

	assert.Len(t, res.Inputs, 4)
	assert.Equal(t, uint64(187_017), res.Fee)
	assert.Equal(t, uint64(10_812_983), res.Summary.AmountSent)

	decoded, err := tx.DecodeTx(res.TxHex)
	require.NoError(t, err)
	require.Len(t, decoded.Outputs, 1)
	assert.Equal(t, destAddr, decoded.Outputs[0].Address)
	assert.Equal(t, utxo.Assets{"aa": {"746f6b": 10}}, decoded.Outputs[0].Assets)
}

func TestSweep_Exclude(t *testing.T) {
	available := abc()
	res := build(t, request(Sweep{Exclude: []string{available[0].Ref()}}, available))
	assert.Len(t, res.Inputs, 2)
	assert.False(t, utxo.Contains(res.Inputs, available[0].Ref()))
}

func TestSweep_HashCaseVariants(t *testing.T) {
	upper := testUTXO("0a", 0, 3_000_000)
	upper.TxHash = strings.ToUpper(upper.TxHash)

	res := build(t, request(Sweep{}, append(abc(), upper)))
	assert.Len(t, res.Inputs, 3)
	assert.Equal(t, uint64(5_821_079), res.Summary.AmountSent)

	res = build(t, request(Sweep{Exclude: []string{upper.Ref()}}, abc()))
	assert.Len(t, res.Inputs, 2)
	assert.False(t, utxo.Contains(res.Inputs, upper.Ref()))

	res = build(t, request(Sweep{Exclude: []string{strings.ToUpper(abc()[1].TxHash) + "#0"}}, abc()))
	assert.Len(t, res.Inputs, 2)
	assert.False(t, utxo.Contains(res.Inputs, abc()[1].Ref()))
}

func TestSweep_Failures(t *testing.T) {
	available := abc()
	tests := []struct {
		name      string
		intent    Sweep
		available []utxo.UTXO
		want      error
	}{
		{"nothing eligible", Sweep{Exclude: utxo.Refs(available)}, available, ErrNoEligibleUtxos},
		{"only assets", Sweep{AdaOnly: true}, []utxo.UTXO{tokenUTXO("0d", 5_000_000)}, ErrNoEligibleUtxos},
		{"empty wallet", Sweep{}, nil, ErrNoEligibleUtxos},
		{"below min keep", Sweep{MinKeep: 6_000_000}, available, ErrInvalidRule},
		{"below min output", Sweep{}, []utxo.UTXO{testUTXO("0f", 0, 200_000)}, ErrInvalidRule},
		{"fee exceeds total", Sweep{}, []utxo.UTXO{testUTXO("0f", 0, 100_000)}, ErrInvalidRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder().Build(request(tt.intent, tt.available))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRateBased_Target(t *testing.T) {
	tests := []struct {
		name   string
		intent RateBased
		want   uint64
		err    bool
	}{
		{"plain", RateBased{FiatAmount: "12.50", Rate: "0.3725"}, 33_557_046, false},
		{"slippage", RateBased{FiatAmount: "12.50", Rate: "0.3725", SlippageBps: 50}, 33_389_260, false},
		{"whole", RateBased{FiatAmount: "100", Rate: "0.25"}, 400_000_000, false},
		{"at limit", RateBased{FiatAmount: "100", Rate: "0.25", UpperLimit: 400_000_000}, 400_000_000, false},
		{"above limit", RateBased{FiatAmount: "100", Rate: "0.25", UpperLimit: 399_999_999}, 0, true},
		{"zero rate", RateBased{FiatAmount: "1", Rate: "0"}, 0, true},
		{"negative fiat", RateBased{FiatAmount: "-1", Rate: "1"}, 0, true},
		{"fraction", RateBased{FiatAmount: "1/3", Rate: "1"}, 0, true},
		{"exponent", RateBased{FiatAmount: "1e3", Rate: "1"}, 0, true},
		{"garbage", RateBased{FiatAmount: "ten", Rate: "1"}, 0, true},
		{"full slippage", RateBased{FiatAmount: "1", Rate: "1", SlippageBps: 10_000}, 0, true},
		{"rounds to zero", RateBased{FiatAmount: "0.0000001", Rate: "1000"}, 0, true},
		{"overflow", RateBased{FiatAmount: "100000000000000000", Rate: "0.001"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.intent.Target()
			if tt.err {
				assert.ErrorIs(t, err, ErrInvalidRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateBased_Build(t *testing.T) {
	available := []utxo.UTXO{testUTXO("1a", 0, 20_000_000), testUTXO("1b", 0, 20_000_000)}
	res := build(t, request(RateBased{FiatAmount: "12.50", Rate: "0.3725"}, available))

	assert.Equal(t, uint64(33_557_046), res.Summary.AmountSent)
	assert.Equal(t, "0.3725", res.Summary.Rate)
	assert.Equal(t, "12.50", res.Summary.FiatAmount)
	assert.Equal(t, "rate_based", res.Mode)
	assert.Len(t, res.Inputs, 2)
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindFixed, KindSweep, KindRateBased} {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("stream")
	assert.ErrorIs(t, err, ErrInvalidRule)
}
