package config

import "fmt"

// ErrInvalid 用于参数验证错误。
type ErrInvalid string

func (e ErrInvalid) Error() string { return string(e) }

// Validate ensures required fields are present. Curve errors are fatal at
// startup; the quoter never sees an even exponent.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return ErrInvalid("env is required")
	}
	if cfg.Market.ID == "" {
		return ErrInvalid("market.id is required")
	}
	if err := cfg.Curve.Validate(); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	if cfg.Ladder.Slices < 1 {
		return ErrInvalid("ladder.slices must be >= 1")
	}
	if cfg.Ladder.QuoteIntervalMs < 0 {
		return ErrInvalid("ladder.quoteIntervalMs must be >= 0")
	}
	if !cfg.Safety.Lower.LessThan(cfg.Safety.Upper) {
		return ErrInvalid(fmt.Sprintf("safety.lower %s must be < safety.upper %s", cfg.Safety.Lower, cfg.Safety.Upper))
	}
	if cfg.Fees.Base.IsNegative() || cfg.Fees.Quote.IsNegative() {
		return ErrInvalid("fees must be >= 0")
	}
	if cfg.Negotiation.TTLSeconds <= 0 {
		return ErrInvalid("negotiation.ttlSeconds must be > 0")
	}
	if cfg.PriceFeed.URL == "" && !cfg.PriceFeed.Static.IsPositive() {
		return ErrInvalid("priceFeed.url or a positive priceFeed.static is required")
	}
	if cfg.PriceFeed.TimeoutMs < 0 || cfg.PriceFeed.BreakerTimeoutSec < 0 {
		return ErrInvalid("priceFeed timeouts must be >= 0")
	}
	if cfg.Inventory.AssetA.IsNegative() || cfg.Inventory.AssetB.IsNegative() {
		return ErrInvalid("inventory balances must be >= 0")
	}
	if cfg.Gateway.PublishRate < 0 || cfg.Gateway.PublishBurst < 0 {
		return ErrInvalid("gateway publish limits must be >= 0")
	}
	return nil
}
