package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// simulated 是构建阶梯时的模拟库存，只在本地推进，不触碰调用方的余额。
type simulated struct {
	a decimal.Decimal
	b decimal.Decimal
}

// afterBuy spends qB of asset B at price and receives the matching asset A.
func (s simulated) afterBuy(qB, price decimal.Decimal) simulated {
	return simulated{
		a: s.a.Add(qB.Div(price)),
		b: s.b.Sub(qB),
	}
}

// afterSell gives up qB/price of asset A and receives qB of asset B.
func (s simulated) afterSell(qB, price decimal.Decimal) simulated {
	return simulated{
		a: s.a.Sub(qB.Div(price)),
		b: s.b.Add(qB),
	}
}

// BuildLadder expands the curve into sliceCount buy and sliceCount sell
// levels by walking a simulated inventory through successive fills, then
// sorts the result ascending by limit price.
//
// Buy quantities are assetB/sliceCount on every slice. Sell slices remove
// assetA/sliceCount each and report the proceeds in asset B. The sell side
// queries the curve at the post-slice point, so its prices are slightly
// front-loaded.
func BuildLadder(p CurveParams, sliceCount int, fairPrice decimal.Decimal, inv Inventory) (Ladder, error) {
	if err := p.checkExponent(); err != nil {
		return nil, err
	}
	if sliceCount < 0 {
		return nil, fmt.Errorf("%w: sliceCount must be >= 0, got %d", ErrInvalidParameter, sliceCount)
	}
	if sliceCount == 0 {
		return Ladder{}, nil
	}

	n := decimal.NewFromInt(int64(sliceCount))
	ladder := make(Ladder, 0, 2*sliceCount)

	// 买单侧：-B => +A
	qB := inv.AssetB.Div(n)
	state := simulated{a: inv.AssetA, b: inv.AssetB}
	for i := 0; i < sliceCount; i++ {
		spread, err := SpreadBp(p, true, state.a.Mul(fairPrice).Add(qB), state.b.Sub(qB))
		if err != nil {
			return nil, err
		}
		limit := fairPrice.Mul(one.Sub(spread.Div(bpDivisor)))
		ladder = append(ladder, Slice{Side: Buy, LimitPrice: limit, Quantity: qB})
		state = state.afterBuy(qB, limit)
	}

	// 卖单侧：-A => +B
	qA := inv.AssetA.Div(n)
	state = simulated{a: inv.AssetA, b: inv.AssetB}
	for i := 0; i < sliceCount; i++ {
		spread, err := SpreadBp(p, false, state.a.Sub(qA).Mul(fairPrice), state.b.Add(qA.Mul(fairPrice)))
		if err != nil {
			return nil, err
		}
		limit := fairPrice.Mul(one.Add(spread.Div(bpDivisor)))
		qty := qA.Mul(limit)
		ladder = append(ladder, Slice{Side: Sell, LimitPrice: limit, Quantity: qty})
		state = state.afterSell(qty, limit)
	}

	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].LimitPrice.LessThan(ladder[j].LimitPrice)
	})
	return ladder, nil
}
