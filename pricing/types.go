// Package pricing implements the inventory-sensitive quoting core: the spread
// curve, the liquidity ladder built on top of it, the fee-adjusted acceptance
// test for counter-offers and the reference price sanity gate.
//
// Every function in this package is pure. Callers may share CurveParams and
// invoke any operation concurrently.
package pricing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	one       = decimal.NewFromInt(1)
	bpDivisor = decimal.NewFromInt(10000)
)

// CurveParams 定义价差曲线，启动时校验后在所有调用间共享。
type CurveParams struct {
	MinSpreadBp decimal.Decimal `yaml:"minSpreadBp" json:"minSpreadBp"`
	MaxSpreadBp decimal.Decimal `yaml:"maxSpreadBp" json:"maxSpreadBp"`
	// Exponent must be odd: the sign of the imbalance survives the power.
	Exponent   int             `yaml:"exponent" json:"exponent"`
	RangeFocus decimal.Decimal `yaml:"rangeFocus" json:"rangeFocus"`
}

// DefaultCurveParams returns min 5bp, max 150bp, exponent 3, range focus 0.5.
func DefaultCurveParams() CurveParams {
	return CurveParams{
		MinSpreadBp: decimal.NewFromInt(5),
		MaxSpreadBp: decimal.NewFromInt(150),
		Exponent:    3,
		RangeFocus:  decimal.RequireFromString("0.5"),
	}
}

// Validate checks the full parameter set. It is meant for startup: a failure
// here is a configuration error, not something to retry per call.
func (p CurveParams) Validate() error {
	if err := p.checkExponent(); err != nil {
		return err
	}
	if p.MinSpreadBp.IsNegative() || p.MaxSpreadBp.IsNegative() {
		return fmt.Errorf("%w: spreads must be >= 0 (min %s, max %s)", ErrInvalidParameter, p.MinSpreadBp, p.MaxSpreadBp)
	}
	if p.MinSpreadBp.GreaterThan(p.MaxSpreadBp) {
		return fmt.Errorf("%w: minSpreadBp %s > maxSpreadBp %s", ErrInvalidParameter, p.MinSpreadBp, p.MaxSpreadBp)
	}
	if p.RangeFocus.IsNegative() {
		return fmt.Errorf("%w: rangeFocus must be >= 0, got %s", ErrInvalidParameter, p.RangeFocus)
	}
	return nil
}

func (p CurveParams) checkExponent() error {
	if p.Exponent < 1 || p.Exponent%2 == 0 {
		return fmt.Errorf("%w: exponent should be an odd number >= 1, got %d", ErrInvalidParameter, p.Exponent)
	}
	return nil
}

// Inventory is the maker's holdings. Quantities are never negative; callers
// own that guarantee.
type Inventory struct {
	AssetA decimal.Decimal `json:"assetA"`
	AssetB decimal.Decimal `json:"assetB"`
}

// IsEmpty reports whether both balances are zero.
func (i Inventory) IsEmpty() bool {
	return i.AssetA.IsZero() && i.AssetB.IsZero()
}

// Side of a ladder slice from the maker's point of view.
type Side string

const (
	Buy  Side = "b"
	Sell Side = "s"
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return string(s)
}

// Slice is one resting quote level. Quantity is in asset B units on both sides.
type Slice struct {
	Side       Side
	LimitPrice decimal.Decimal
	Quantity   decimal.Decimal
}

// MarshalJSON encodes the slice as a [side, price, quantity] triple.
func (s Slice) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{string(s.Side), s.LimitPrice.String(), s.Quantity.String()})
}

// UnmarshalJSON decodes a [side, price, quantity] triple.
func (s *Slice) UnmarshalJSON(data []byte) error {
	var raw [3]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	side := Side(raw[0])
	if side != Buy && side != Sell {
		return fmt.Errorf("unknown side %q", raw[0])
	}
	price, err := decimal.NewFromString(raw[1])
	if err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	qty, err := decimal.NewFromString(raw[2])
	if err != nil {
		return fmt.Errorf("parse quantity: %w", err)
	}
	*s = Slice{Side: side, LimitPrice: price, Quantity: qty}
	return nil
}

// Ladder is an ordered sequence of slices, ascending by LimitPrice.
type Ladder []Slice

// Counts returns the number of buy and sell slices.
func (l Ladder) Counts() (buys, sells int) {
	for _, s := range l {
		if s.Side == Buy {
			buys++
		} else {
			sells++
		}
	}
	return
}

// Best returns the innermost slice for side: the highest buy or the lowest sell.
func (l Ladder) Best(side Side) (Slice, bool) {
	if side == Buy {
		for i := len(l) - 1; i >= 0; i-- {
			if l[i].Side == Buy {
				return l[i], true
			}
		}
		return Slice{}, false
	}
	for _, s := range l {
		if s.Side == Sell {
			return s, true
		}
	}
	return Slice{}, false
}

// TradeOffer is a counterparty's proposed trade. IsBuy is from the
// counterparty's side: true means it wants to buy asset A from the maker.
type TradeOffer struct {
	IsBuy  bool
	AssetA decimal.Decimal
	AssetB decimal.Decimal
	Fee    decimal.Decimal
}
