package pricing

import "github.com/shopspring/decimal"

// Evaluation is the outcome of testing a TradeOffer against the curve.
type Evaluation struct {
	Accepted      bool
	SpreadBp      decimal.Decimal
	RequiredPrice decimal.Decimal
	OfferedPrice  decimal.Decimal
}

// EvaluateTrade prices the offer as if it had already been filled: the curve
// is queried at the post-trade inventory, net of the fee, and the resulting
// required price is compared with the offer's effective price.
//
// When the counterparty buys, the maker sells asset A and the required price
// is a floor. When the counterparty sells, the maker buys asset A and the
// required price is a ceiling.
//
// A zero divisor (offer.AssetA == 0 on a buy, offer.AssetA == offer.Fee on a
// sell) is a caller bug and panics.
func EvaluateTrade(p CurveParams, fairPrice decimal.Decimal, inv Inventory, offer TradeOffer) (Evaluation, error) {
	if offer.IsBuy {
		spread, err := SpreadBp(p, false,
			inv.AssetA.Sub(offer.AssetA).Mul(fairPrice),
			inv.AssetB.Sub(offer.Fee).Add(offer.AssetB))
		if err != nil {
			return Evaluation{}, err
		}
		required := requiredPrice(fairPrice, spread)
		offered := offer.AssetB.Sub(offer.Fee).Div(offer.AssetA)
		return Evaluation{
			Accepted:      required.LessThanOrEqual(offered),
			SpreadBp:      spread,
			RequiredPrice: required,
			OfferedPrice:  offered,
		}, nil
	}

	spread, err := SpreadBp(p, true,
		inv.AssetA.Sub(offer.Fee).Add(offer.AssetA).Mul(fairPrice),
		inv.AssetB.Sub(offer.AssetB))
	if err != nil {
		return Evaluation{}, err
	}
	required := requiredPrice(fairPrice, spread)
	offered := offer.AssetB.Div(offer.AssetA.Sub(offer.Fee))
	return Evaluation{
		Accepted:      required.GreaterThanOrEqual(offered),
		SpreadBp:      spread,
		RequiredPrice: required,
		OfferedPrice:  offered,
	}, nil
}

// IsTradeAcceptable reports whether the maker should take the offer.
func IsTradeAcceptable(p CurveParams, fairPrice decimal.Decimal, inv Inventory, offer TradeOffer) (bool, error) {
	ev, err := EvaluateTrade(p, fairPrice, inv, offer)
	if err != nil {
		return false, err
	}
	return ev.Accepted, nil
}

// 两个分支都用 (1 + spread) 计价。
func requiredPrice(fairPrice, spreadBp decimal.Decimal) decimal.Decimal {
	return spreadBp.Div(bpDivisor).Add(one).Mul(fairPrice)
}
