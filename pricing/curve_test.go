package pricing

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSpreadBp_RejectsEvenExponent(t *testing.T) {
	for _, exp := range []int{4, 2, 0, -1} {
		p := DefaultCurveParams()
		p.Exponent = exp
		for _, isBuy := range []bool{true, false} {
			_, err := SpreadBp(p, isBuy, d("10"), d("10"))
			require.ErrorIs(t, err, ErrInvalidParameter, "exponent %d isBuy %v", exp, isBuy)
		}
	}
}

func TestSpreadBp_KnownValues(t *testing.T) {
	p := DefaultCurveParams()
	tests := []struct {
		name     string
		a, b     string
		wantBuy  string
		wantSell string
	}{
		{name: "balanced", a: "10", b: "10", wantBuy: "5.000", wantSell: "5.000"},
		{name: "only A", a: "10", b: "0", wantBuy: "150.000", wantSell: "5.000"},
		{name: "only B", a: "0", b: "10", wantBuy: "5.000", wantSell: "150.000"},
		{name: "empty", a: "0", b: "0", wantBuy: "5.000", wantSell: "5.000"},
		{name: "skew 5/15", a: "5", b: "15", wantBuy: "5.000", wantSell: "47.855"},
		{name: "skew 2/18", a: "2", b: "18", wantBuy: "5.000", wantSell: "95.921"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy, err := SpreadBp(p, true, d(tt.a), d(tt.b))
			require.NoError(t, err)
			sell, err := SpreadBp(p, false, d(tt.a), d(tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.wantBuy, buy.StringFixed(3))
			assert.Equal(t, tt.wantSell, sell.StringFixed(3))
		})
	}
}

func TestSpreadBp_ExactEdges(t *testing.T) {
	p := DefaultCurveParams()

	full, err := SpreadBp(p, true, d("10"), d("0"))
	require.NoError(t, err)
	assert.True(t, full.Equal(p.MaxSpreadBp), "got %s", full)

	floor, err := SpreadBp(p, false, d("10"), d("0"))
	require.NoError(t, err)
	assert.True(t, floor.Equal(p.MinSpreadBp), "got %s", floor)

	zero, err := SpreadBp(p, true, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, zero.Equal(p.MinSpreadBp), "got %s", zero)
}

func TestSpreadBp_FloorAndSymmetry(t *testing.T) {
	values := []string{"0", "0.001", "1", "2.5", "10", "99.9", "1000"}
	for _, exp := range []int{1, 3, 5, 7} {
		p := DefaultCurveParams()
		p.Exponent = exp
		for _, a := range values {
			for _, b := range values {
				name := fmt.Sprintf("exp=%d/a=%s/b=%s", exp, a, b)
				buy, err := SpreadBp(p, true, d(a), d(b))
				require.NoError(t, err, name)
				mirrored, err := SpreadBp(p, false, d(b), d(a))
				require.NoError(t, err, name)

				assert.True(t, buy.GreaterThanOrEqual(p.MinSpreadBp), "%s: %s below floor", name, buy)
				assert.True(t, buy.Equal(mirrored), "%s: %s != %s", name, buy, mirrored)
			}
		}
	}
}

func TestSpreadBp_WidensWithDepletion(t *testing.T) {
	p := DefaultCurveParams()
	prev := decimal.Zero
	// B 越少，买单侧价差越宽
	for _, b := range []string{"10", "8", "6", "4", "2", "0"} {
		s, err := SpreadBp(p, true, d("10"), d(b))
		require.NoError(t, err)
		assert.True(t, s.GreaterThanOrEqual(prev), "b=%s: %s < %s", b, s, prev)
		prev = s
	}
}

func TestSqrt(t *testing.T) {
	assert.True(t, sqrt(d("1")).Equal(d("1")))
	assert.True(t, sqrt(d("0.25")).Equal(d("0.5")))
	assert.Equal(t, "1.4142135624", sqrt(d("2")).StringFixed(10))
	assert.Equal(t, "0.7071067812", sqrt(d("0.5")).StringFixed(10))
	assert.True(t, sqrt(decimal.Zero).IsZero())
}

func TestCurveParamsValidate(t *testing.T) {
	require.NoError(t, DefaultCurveParams().Validate())

	bad := []func(*CurveParams){
		func(p *CurveParams) { p.Exponent = 2 },
		func(p *CurveParams) { p.MinSpreadBp = d("200") },
		func(p *CurveParams) { p.MaxSpreadBp = d("-1") },
		func(p *CurveParams) { p.RangeFocus = d("-0.1") },
	}
	for i, mutate := range bad {
		p := DefaultCurveParams()
		mutate(&p)
		assert.ErrorIs(t, p.Validate(), ErrInvalidParameter, "case %d", i)
	}
}
