package pricing

import "github.com/shopspring/decimal"

// SafetyGate bounds a fetched reference price for a pair expected to trade
// near parity. Both bounds are exclusive.
type SafetyGate struct {
	Lower decimal.Decimal `yaml:"lower" json:"lower"`
	Upper decimal.Decimal `yaml:"upper" json:"upper"`
}

// DefaultSafetyGate returns the (1.01, 1.10) window.
func DefaultSafetyGate() SafetyGate {
	return SafetyGate{
		Lower: decimal.RequireFromString("1.01"),
		Upper: decimal.RequireFromString("1.10"),
	}
}

// IsReferencePriceSafe reports whether ratio lies strictly inside the window.
func (g SafetyGate) IsReferencePriceSafe(ratio decimal.Decimal) bool {
	return ratio.GreaterThan(g.Lower) && ratio.LessThan(g.Upper)
}

// IsReferencePriceSafe checks ratio against DefaultSafetyGate.
func IsReferencePriceSafe(ratio decimal.Decimal) bool {
	return DefaultSafetyGate().IsReferencePriceSafe(ratio)
}
