package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const sqrtPrecision = 32

var two = decimal.NewFromInt(2)

// SpreadBp maps an inventory imbalance to the spread, in basis points, the
// maker requires on one side. valueA and valueB must already be in comparable
// units (typically assetA*fairPrice and assetB).
//
// isBuy widens the spread as valueA outweighs valueB; the sell side mirrors it.
// A zero combined value is treated as a neutral imbalance and yields the floor.
func SpreadBp(p CurveParams, isBuy bool, valueA, valueB decimal.Decimal) (decimal.Decimal, error) {
	if err := p.checkExponent(); err != nil {
		return decimal.Zero, err
	}

	imbalance := decimal.Zero
	if total := valueA.Add(valueB); !total.IsZero() {
		if isBuy {
			imbalance = valueA.Sub(valueB).Div(total)
		} else {
			imbalance = valueB.Sub(valueA).Div(total)
		}
	}

	boost := decimal.Zero
	if imbalance.IsPositive() {
		boost = p.RangeFocus.Mul(sqrt(imbalance))
	}

	raw := imbalance.Pow(decimal.NewFromInt(int64(p.Exponent))).
		Add(boost).
		Div(p.RangeFocus.Add(one)).
		Mul(p.MaxSpreadBp)

	return decimal.Max(raw, p.MinSpreadBp), nil
}

// sqrt 牛顿迭代求平方根，x 必须为正。
func sqrt(x decimal.Decimal) decimal.Decimal {
	if !x.IsPositive() {
		return decimal.Zero
	}
	guess := decimal.NewFromFloat(math.Sqrt(x.InexactFloat64()))
	if !guess.IsPositive() {
		guess = one
	}
	for i := 0; i < 64; i++ {
		next := guess.Add(x.DivRound(guess, sqrtPrecision)).DivRound(two, sqrtPrecision)
		if next.Equal(guess) {
			break
		}
		guess = next
	}
	return guess
}
