package quoter

import (
	"fmt"
	"time"

	"curve-mm-go/config"
	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
)

// Config 是报价器运行所需的参数子集，可在运行中整体替换。
type Config struct {
	MarketID       string
	ClientID       string
	Curve          pricing.CurveParams
	Slices         int
	Gate           pricing.SafetyGate
	BaseFee        decimal.Decimal // 对手方卖出时收取，单位 A
	QuoteFee       decimal.Decimal // 对手方买入时收取，单位 B
	NegotiationTTL time.Duration
}

// ConfigFrom extracts the quoter settings from the application config.
func ConfigFrom(app config.AppConfig) Config {
	return Config{
		MarketID:       app.Market.ID,
		ClientID:       app.Gateway.ClientID,
		Curve:          app.Curve,
		Slices:         app.Ladder.Slices,
		Gate:           app.Safety,
		BaseFee:        app.Fees.Base,
		QuoteFee:       app.Fees.Quote,
		NegotiationTTL: app.NegotiationTTL(),
	}
}

func (c Config) Validate() error {
	if c.MarketID == "" {
		return fmt.Errorf("market id required")
	}
	if err := c.Curve.Validate(); err != nil {
		return err
	}
	if c.Slices < 1 {
		return fmt.Errorf("%w: slices must be >= 1, got %d", pricing.ErrInvalidParameter, c.Slices)
	}
	if !c.Gate.Lower.LessThan(c.Gate.Upper) {
		return fmt.Errorf("safety gate lower %s must be < upper %s", c.Gate.Lower, c.Gate.Upper)
	}
	if c.BaseFee.IsNegative() || c.QuoteFee.IsNegative() {
		return fmt.Errorf("fees must be >= 0")
	}
	if c.NegotiationTTL <= 0 {
		return fmt.Errorf("negotiation ttl must be > 0")
	}
	return nil
}

// feeFor 对手方买入付 quote 费（B），卖出付 base 费（A）。
func (c Config) feeFor(counterpartyBuys bool) decimal.Decimal {
	if counterpartyBuys {
		return c.QuoteFee
	}
	return c.BaseFee
}
