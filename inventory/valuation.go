package inventory

import (
	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
)

// Value 以公允价把 A 折算为 B，返回两侧价值、总价值以及 A 侧占比。
func Value(inv pricing.Inventory, fairPrice decimal.Decimal) (valueA, valueB, total, shareA decimal.Decimal) {
	valueA = inv.AssetA.Mul(fairPrice)
	valueB = inv.AssetB
	total = valueA.Add(valueB)
	shareA = decimal.Zero
	if !total.IsZero() {
		shareA = valueA.Div(total)
	}
	return
}

// Valuation values the tracked balances at fairPrice.
func (t *Tracker) Valuation(fairPrice decimal.Decimal) (valueA, valueB, total, shareA decimal.Decimal) {
	return Value(t.Snapshot(), fairPrice)
}
