package utxo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() []UTXO {
	return []UTXO{
		testUTXO("01", 0, 3_000_000),
		withAsset(testUTXO("02", 1, 2_000_000), "aa", "746f6b", 10),
		testUTXO("03", 0, 5_000_000),
		withAsset(testUTXO("04", 2, 1_500_000), "bb", "", 1),
		testUTXO("05", 0, 3_000_000),
	}
}

func TestAnalyze(t *testing.T) {
	st, err := Analyze(sampleSet())
	require.NoError(t, err)

	assert.Equal(t, 5, st.Count)
	assert.Equal(t, uint64(14_500_000), st.Total)
	assert.Equal(t, 3, st.CleanCount)
	assert.Equal(t, uint64(11_000_000), st.CleanTotal)
	assert.Equal(t, 2, st.AssetCount)
	assert.Equal(t, []string{"aa.746f6b", "bb."}, st.AssetIDs)
	assert.Equal(t, uint64(2_900_000), st.Average)
}

func TestAnalyzeEmpty(t *testing.T) {
	st, err := Analyze(nil)
	require.NoError(t, err)
	assert.Zero(t, st.Count)
	assert.Zero(t, st.Average)
	assert.Empty(t, st.AssetIDs)
}

func TestFilter(t *testing.T) {
	set := sampleSet()

	tests := []struct {
		name string
		opts FilterOptions
		want []string // tx hash prefix bytes, in order
	}{
		{"discovery", FilterOptions{}, []string{"01", "02", "03", "04", "05"}},
		{"value_desc", FilterOptions{Order: OrderValueDesc}, []string{"03", "01", "05", "02", "04"}},
		{"value_asc", FilterOptions{Order: OrderValueAsc}, []string{"04", "02", "01", "05", "03"}},
		{"clean_first", FilterOptions{Order: OrderCleanFirst}, []string{"03", "01", "05", "02", "04"}},
		{"clean_only", FilterOptions{CleanOnly: true}, []string{"01", "03", "05"}},
		{"with_assets", FilterOptions{WithAssets: true, Order: OrderValueAsc}, []string{"04", "02"}},
		{"exclude", FilterOptions{Exclude: NewRefSet(set[2].Ref()), CleanOnly: true}, []string{"01", "05"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(set, tc.opts)
			require.Len(t, got, len(tc.want))
			for i, u := range got {
				assert.Equal(t, tc.want[i], u.TxHash[:2], "position %d", i)
			}
		})
	}

	// The input slice is never reordered.
	assert.Equal(t, "01", set[0].TxHash[:2])
	assert.Equal(t, "05", set[4].TxHash[:2])
}

func TestParseOrder(t *testing.T) {
	for name, want := range map[string]Order{
		"":            OrderDiscovery,
		"discovery":   OrderDiscovery,
		"value-desc":  OrderValueDesc,
		"value-asc":   OrderValueAsc,
		"clean-first": OrderCleanFirst,
	} {
		got, ok := ParseOrder(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := ParseOrder("random")
	assert.False(t, ok)
}
