package polygon

import (
	"encoding/json"
	"testing"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleInt64(t *testing.T) {
	for in, want := range map[string]int64{
		`42`:     42,
		`1.5e6`:  1500000,
		`"7300"`: 7300,
		`12.9`:   12,
	} {
		var f FlexibleInt64
		require.NoError(t, json.Unmarshal([]byte(in), &f), in)
		assert.Equal(t, want, f.Int64(), in)
	}

	var f FlexibleInt64
	assert.Error(t, json.Unmarshal([]byte(`true`), &f))
}

func TestRawBarDecode_OptionalFields(t *testing.T) {
	var rb RawBar
	require.NoError(t, json.Unmarshal([]byte(`{"t":1704067200000,"o":1,"h":2,"l":0.5,"c":1.5,"v":10}`), &rb))

	b := rb.ToBar()
	assert.False(t, b.HasVWAP())
	assert.False(t, b.HasTransactions())
	assert.Equal(t, int64(10), b.Volume)
}

func TestFromAgg_ZeroOptionalsAreAbsent(t *testing.T) {
	rb := fromAgg(models.Agg{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10})
	assert.Nil(t, rb.VWAP)
	assert.Nil(t, rb.Transactions)

	rb = fromAgg(models.Agg{Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10, VWAP: 1.2, Transactions: 3})
	require.NotNil(t, rb.VWAP)
	assert.Equal(t, 1.2, *rb.VWAP)
	assert.Equal(t, int64(3), rb.Transactions.Int64())
}

func TestLimitOrMax(t *testing.T) {
	assert.Equal(t, MaxLimit, limitOrMax(0))
	assert.Equal(t, MaxLimit, limitOrMax(MaxLimit+1))
	assert.Equal(t, 100, limitOrMax(100))
}
