package utxo

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddr = "61aabbccddeeff00112233445566778899aabbccddeeff0011223344"

func testUTXO(hashByte string, idx uint32, amount uint64) UTXO {
	return UTXO{
		TxHash:      strings.Repeat(hashByte, 32),
		OutputIndex: idx,
		Address:     testAddr,
		Amount:      amount,
	}
}

func withAsset(u UTXO, policy, name string, qty uint64) UTXO {
	if u.Assets == nil {
		u.Assets = make(Assets)
	}
	if u.Assets[policy] == nil {
		u.Assets[policy] = make(map[string]uint64)
	}
	u.Assets[policy][name] = qty
	return u
}

func TestUTXORef(t *testing.T) {
	u := testUTXO("ab", 3, 10)
	assert.Equal(t, strings.Repeat("ab", 32)+"#3", u.Ref())

	hash, idx, err := ParseRef(u.Ref())
	require.NoError(t, err)
	assert.Equal(t, u.TxHash, hash)
	assert.Equal(t, uint32(3), idx)
}

func TestRefIgnoresHashCase(t *testing.T) {
	lower := testUTXO("ab", 3, 10)
	upper := lower
	upper.TxHash = strings.ToUpper(lower.TxHash)

	assert.Equal(t, lower.Ref(), upper.Ref())
	assert.Len(t, Dedup([]UTXO{lower, upper}), 1)
	assert.True(t, Contains([]UTXO{lower}, strings.ToUpper(lower.TxHash)+"#3"))
	assert.True(t, NewRefSet(strings.ToUpper(lower.TxHash)+"#3").Has(lower.Ref()))
	assert.Equal(t, "abc#1", NormalizeRef("ABC#1"))
	assert.Equal(t, "NOREF", NormalizeRef("NOREF"))
}

func TestParseRefErrors(t *testing.T) {
	for _, ref := range []string{"", "abc", "#1", "abc#x", "abc#-1", "abc#99999999999"} {
		_, _, err := ParseRef(ref)
		assert.ErrorIs(t, err, ErrInvalidRef, "ref %q", ref)
	}
}

func TestUTXOIsClean(t *testing.T) {
	u := testUTXO("01", 0, 5)
	assert.True(t, u.IsClean())

	zero := withAsset(u, "aa", "", 0)
	assert.True(t, zero.IsClean(), "zero quantity does not count as an asset")

	tok := withAsset(testUTXO("02", 0, 5), "aa", "746f6b", 7)
	assert.False(t, tok.IsClean())
	assert.Equal(t, 1, tok.AssetCount())
}

func TestUTXOValidate(t *testing.T) {
	require.NoError(t, testUTXO("0f", 1, 1).Validate())

	bad := testUTXO("0f", 1, 1)
	bad.TxHash = "zz"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidUTXO)

	noAddr := testUTXO("0f", 1, 1)
	noAddr.Address = ""
	assert.ErrorIs(t, noAddr.Validate(), ErrInvalidUTXO)

	badPolicy := withAsset(testUTXO("0f", 1, 1), "xyz", "", 1)
	assert.ErrorIs(t, badPolicy.Validate(), ErrInvalidUTXO)
}

func TestDedupAndContains(t *testing.T) {
	a := testUTXO("01", 0, 1)
	b := testUTXO("02", 0, 2)
	out := Dedup([]UTXO{a, b, a})
	require.Len(t, out, 2)
	assert.Equal(t, []string{a.Ref(), b.Ref()}, Refs(out))
	assert.True(t, Contains(out, b.Ref()))
	assert.False(t, Contains(out, testUTXO("03", 0, 1).Ref()))
}

func TestMergeAssets(t *testing.T) {
	a := withAsset(testUTXO("01", 0, 1), "aa", "01", 5)
	b := withAsset(testUTXO("02", 0, 1), "aa", "01", 7)
	b = withAsset(b, "bb", "", 1)

	merged, err := MergeAssets([]UTXO{a, b, testUTXO("03", 0, 9)})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), merged["aa"]["01"])
	assert.Equal(t, uint64(1), merged["bb"][""])
	assert.Equal(t, 2, merged.Count())

	c := withAsset(testUTXO("04", 0, 1), "aa", "01", math.MaxUint64)
	_, err = MergeAssets([]UTXO{a, c})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestCheckedArithmetic(t *testing.T) {
	_, err := Add(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = Sub(1, 2)
	assert.ErrorIs(t, err, ErrUnderflow)

	_, err = Mul(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := MulDiv(math.MaxUint64, 9_999, 10_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(18444899399302180659), v)

	_, err = MulDiv(1, 1, 0)
	assert.Error(t, err)

	total, err := Sum([]UTXO{testUTXO("01", 0, 3), testUTXO("02", 0, 4)})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), total)
}
