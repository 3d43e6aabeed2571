package market

import (
	"context"
	"fmt"

	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
)

// GatedSource rejects prices outside Gate. OnUnsafe, if set, sees every rejected price.
type GatedSource struct {
	Source   PriceSource
	Gate     pricing.SafetyGate
	OnUnsafe func(price decimal.Decimal)
}

func (g GatedSource) FairPrice(ctx context.Context) (decimal.Decimal, error) {
	price, err := g.Source.FairPrice(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	if price.IsZero() {
		return decimal.Zero, ErrNoPrice
	}
	if !g.Gate.IsReferencePriceSafe(price) {
		if g.OnUnsafe != nil {
			g.OnUnsafe(price)
		}
		return decimal.Zero, fmt.Errorf("%w: %s not in (%s, %s)", ErrUnsafePrice, price, g.Gate.Lower, g.Gate.Upper)
	}
	return price, nil
}
