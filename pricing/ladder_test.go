package pricing

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ladderParams() CurveParams {
	return CurveParams{
		MinSpreadBp: d("5"),
		MaxSpreadBp: d("100"),
		Exponent:    3,
		RangeFocus:  d("0.5"),
	}
}

func TestBuildLadder_SingleSlice(t *testing.T) {
	ladder, err := BuildLadder(ladderParams(), 1, d("1"), Inventory{AssetA: d("10"), AssetB: d("10")})
	require.NoError(t, err)
	require.Len(t, ladder, 2)

	assert.Equal(t, Buy, ladder[0].Side)
	assert.True(t, ladder[0].LimitPrice.Equal(d("0.99")), "buy price %s", ladder[0].LimitPrice)
	assert.True(t, ladder[0].Quantity.Equal(d("10")), "buy qty %s", ladder[0].Quantity)

	assert.Equal(t, Sell, ladder[1].Side)
	assert.True(t, ladder[1].LimitPrice.Equal(d("1.01")), "sell price %s", ladder[1].LimitPrice)
	assert.True(t, ladder[1].Quantity.Equal(d("10.1")), "sell qty %s", ladder[1].Quantity)
}

func TestBuildLadder_ThreeSlices(t *testing.T) {
	tests := []struct {
		name    string
		fair    string
		a, b    string
		prices  []string
		buyQty  decimal.Decimal
		sellQty []string
	}{
		{
			name:    "parity",
			fair:    "1",
			a:       "10",
			b:       "10",
			prices:  []string{"0.9900", "0.9953", "0.9978", "1.0022", "1.0047", "1.0100"},
			buyQty:  d("10").Div(d("3")),
			sellQty: []string{"3.3406", "3.3490", "3.3667"},
		},
		{
			name:    "1A=2B",
			fair:    "2",
			a:       "10",
			b:       "20",
			prices:  []string{"1.9800", "1.9906", "1.9957", "2.0043", "2.0094", "2.0200"},
			buyQty:  d("20").Div(d("3")),
			sellQty: []string{"6.6811", "6.6980", "6.7333"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ladder, err := BuildLadder(ladderParams(), 3, d(tt.fair), Inventory{AssetA: d(tt.a), AssetB: d(tt.b)})
			require.NoError(t, err)
			require.Len(t, ladder, 6)

			for i, want := range tt.prices {
				assert.Equal(t, want, ladder[i].LimitPrice.StringFixed(4), "slice %d", i)
			}
			for i := 0; i < 3; i++ {
				assert.Equal(t, Buy, ladder[i].Side)
				assert.True(t, ladder[i].Quantity.Equal(tt.buyQty), "buy qty %s", ladder[i].Quantity)
			}
			for i := 3; i < 6; i++ {
				assert.Equal(t, Sell, ladder[i].Side)
				assert.Equal(t, tt.sellQty[i-3], ladder[i].Quantity.StringFixed(4))
			}
		})
	}
}

func TestBuildLadder_Shape(t *testing.T) {
	p := DefaultCurveParams()
	inventories := []Inventory{
		{AssetA: d("10"), AssetB: d("10")},
		{AssetA: d("0"), AssetB: d("50")},
		{AssetA: d("42.5"), AssetB: d("0")},
		{AssetA: d("3"), AssetB: d("700")},
		{AssetA: d("0"), AssetB: d("0")},
	}
	for _, inv := range inventories {
		for _, n := range []int{1, 2, 5, 17} {
			name := fmt.Sprintf("A=%s/B=%s/n=%d", inv.AssetA, inv.AssetB, n)
			ladder, err := BuildLadder(p, n, d("1.05"), inv)
			require.NoError(t, err, name)
			require.Len(t, ladder, 2*n, name)

			buys, sells := ladder.Counts()
			assert.Equal(t, n, buys, name)
			assert.Equal(t, n, sells, name)
			for i := 1; i < len(ladder); i++ {
				assert.True(t, ladder[i-1].LimitPrice.LessThanOrEqual(ladder[i].LimitPrice),
					"%s: not sorted at %d (%s > %s)", name, i, ladder[i-1].LimitPrice, ladder[i].LimitPrice)
			}
		}
	}
}

func TestBuildLadder_DoesNotTouchInventory(t *testing.T) {
	inv := Inventory{AssetA: d("10"), AssetB: d("10")}
	_, err := BuildLadder(DefaultCurveParams(), 4, d("1"), inv)
	require.NoError(t, err)
	assert.True(t, inv.AssetA.Equal(d("10")))
	assert.True(t, inv.AssetB.Equal(d("10")))
}

func TestBuildLadder_Degenerate(t *testing.T) {
	ladder, err := BuildLadder(DefaultCurveParams(), 0, d("1"), Inventory{AssetA: d("1"), AssetB: d("1")})
	require.NoError(t, err)
	assert.Empty(t, ladder)

	_, err = BuildLadder(DefaultCurveParams(), -1, d("1"), Inventory{AssetA: d("1"), AssetB: d("1")})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	p := DefaultCurveParams()
	p.Exponent = 2
	_, err = BuildLadder(p, 0, d("1"), Inventory{})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSimulatedSteps(t *testing.T) {
	s := simulated{a: d("10"), b: d("10")}

	bought := s.afterBuy(d("5"), d("0.5"))
	assert.True(t, bought.a.Equal(d("20")), "a=%s", bought.a)
	assert.True(t, bought.b.Equal(d("5")), "b=%s", bought.b)

	sold := s.afterSell(d("4"), d("2"))
	assert.True(t, sold.a.Equal(d("8")), "a=%s", sold.a)
	assert.True(t, sold.b.Equal(d("14")), "b=%s", sold.b)

	// 原值不变
	assert.True(t, s.a.Equal(d("10")))
}

func TestLadderBest(t *testing.T) {
	ladder, err := BuildLadder(ladderParams(), 3, d("1"), Inventory{AssetA: d("10"), AssetB: d("10")})
	require.NoError(t, err)

	bid, ok := ladder.Best(Buy)
	require.True(t, ok)
	assert.Equal(t, "0.9978", bid.LimitPrice.StringFixed(4))

	ask, ok := ladder.Best(Sell)
	require.True(t, ok)
	assert.Equal(t, "1.0022", ask.LimitPrice.StringFixed(4))

	_, ok = Ladder{}.Best(Sell)
	assert.False(t, ok)
}

func TestLadderJSON(t *testing.T) {
	ladder, err := BuildLadder(ladderParams(), 1, d("1"), Inventory{AssetA: d("10"), AssetB: d("10")})
	require.NoError(t, err)

	raw, err := json.Marshal(ladder)
	require.NoError(t, err)
	assert.JSONEq(t, `[["b","0.99","10"],["s","1.01","10.1"]]`, string(raw))

	var decoded Ladder
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, Sell, decoded[1].Side)
	assert.True(t, decoded[1].Quantity.Equal(d("10.1")))

	var bad Ladder
	assert.Error(t, json.Unmarshal([]byte(`[["x","1","1"]]`), &bad))
}
