// Package quoter 编排一次报价周期：取余额、取公允价、过安全闸、构建阶梯并发布；
// 同时处理对手方询价，单个未决协商带 TTL 锁。
package quoter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"curve-mm-go/gateway"
	"curve-mm-go/infrastructure/logger"
	"curve-mm-go/inventory"
	"curve-mm-go/market"
	"curve-mm-go/metrics"
	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
)

var bps = decimal.NewFromInt(10000)

// BalanceSource yields the maker's current holdings.
type BalanceSource interface {
	Balances(ctx context.Context) (pricing.Inventory, error)
}

// LadderPublisher delivers a ladder to the venue.
type LadderPublisher interface {
	Publish(ctx context.Context, msg gateway.LadderMessage) error
}

// FillRecorder is told about every negotiation that settled as filled.
type FillRecorder interface {
	ApplyFill(offer pricing.TradeOffer)
}

// Quote is one ladder together with the inputs it was built from.
type Quote struct {
	FairPrice decimal.Decimal
	Inventory pricing.Inventory
	Ladder    pricing.Ladder
}

type Quoter struct {
	prices    market.PriceSource
	balances  BalanceSource
	publisher LadderPublisher
	fills     FillRecorder
	log       *logger.Logger
	now       func() time.Time

	offerMu sync.Mutex // 串行处理询价

	mu      sync.Mutex
	cfg     Config
	pending *negotiation
}

type Option func(*Quoter)

func WithLogger(l *logger.Logger) Option {
	return func(q *Quoter) { q.log = l }
}

func WithFillRecorder(r FillRecorder) Option {
	return func(q *Quoter) { q.fills = r }
}

// WithClock overrides time.Now, used by negotiation expiry.
func WithClock(now func() time.Time) Option {
	return func(q *Quoter) { q.now = now }
}

func New(cfg Config, prices market.PriceSource, balances BalanceSource, publisher LadderPublisher, opts ...Option) (*Quoter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quoter config: %w", err)
	}
	if prices == nil || balances == nil {
		return nil, fmt.Errorf("price and balance sources are required")
	}
	q := &Quoter{
		prices:    prices,
		balances:  balances,
		publisher: publisher,
		log:       logger.NewNop(),
		now:       time.Now,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q, nil
}

// Config returns the active configuration.
func (q *Quoter) Config() Config {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cfg
}

// UpdateConfig swaps the configuration after validating it. A pending
// negotiation keeps its original expiry.
func (q *Quoter) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid quoter config: %w", err)
	}
	q.mu.Lock()
	q.cfg = cfg
	q.mu.Unlock()
	q.log.LogLadder("config_updated", map[string]interface{}{
		"market": cfg.MarketID,
		"slices": cfg.Slices,
	})
	return nil
}

// SetFees updates the venue fees; negative values are clamped to zero.
func (q *Quoter) SetFees(base, quote decimal.Decimal) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cfg.BaseFee = decimal.Max(base, decimal.Zero)
	q.cfg.QuoteFee = decimal.Max(quote, decimal.Zero)
}

// snapshot 获取构建阶梯或评估询价所需的输入：余额、公允价（已过安全闸）。
func (q *Quoter) snapshot(ctx context.Context, cfg Config) (pricing.Inventory, decimal.Decimal, error) {
	inv, err := q.balances.Balances(ctx)
	if err != nil {
		return pricing.Inventory{}, decimal.Zero, fmt.Errorf("fetch balances: %w", err)
	}
	if inv.IsEmpty() {
		return pricing.Inventory{}, decimal.Zero, ErrEmptyInventory
	}

	fair, err := q.prices.FairPrice(ctx)
	if err != nil {
		return pricing.Inventory{}, decimal.Zero, fmt.Errorf("fetch fair price: %w", err)
	}
	if !fair.IsPositive() {
		return pricing.Inventory{}, decimal.Zero, market.ErrNoPrice
	}
	if !cfg.Gate.IsReferencePriceSafe(fair) {
		metrics.UnsafeReferencePrices.Inc()
		q.log.LogRisk("unsafe_reference_price", map[string]interface{}{
			"fair_price": fair.String(),
			"lower":      cfg.Gate.Lower.String(),
			"upper":      cfg.Gate.Upper.String(),
		})
		return pricing.Inventory{}, decimal.Zero, fmt.Errorf("%w: %s", ErrUnsafePrice, fair)
	}
	return inv, fair, nil
}

// BuildLadder computes the current ladder without publishing it.
func (q *Quoter) BuildLadder(ctx context.Context) (Quote, error) {
	cfg := q.Config()
	inv, fair, err := q.snapshot(ctx, cfg)
	if err != nil {
		return Quote{}, err
	}
	ladder, err := pricing.BuildLadder(cfg.Curve, cfg.Slices, fair, inv)
	if err != nil {
		return Quote{}, fmt.Errorf("build ladder: %w", err)
	}
	return Quote{FairPrice: fair, Inventory: inv, Ladder: ladder}, nil
}

// Requote builds and publishes a fresh ladder.
func (q *Quoter) Requote(ctx context.Context) (Quote, error) {
	quote, err := q.BuildLadder(ctx)
	if err != nil {
		metrics.RecordLadderFailure(failureReason(err))
		q.log.LogError(err, map[string]interface{}{"stage": "build_ladder"})
		return Quote{}, err
	}

	cfg := q.Config()
	if q.publisher != nil {
		msg := gateway.NewLadderMessage(cfg.MarketID, cfg.ClientID, quote.Ladder)
		if err := q.publisher.Publish(ctx, msg); err != nil {
			metrics.RecordLadderFailure("publish")
			q.log.LogError(err, map[string]interface{}{"stage": "publish"})
			return quote, fmt.Errorf("publish ladder: %w", err)
		}
	}

	buyBps, sellBps := innerSpreads(quote)
	metrics.UpdateLadderMetrics(
		quote.FairPrice.InexactFloat64(),
		quote.Inventory.AssetA.InexactFloat64(),
		quote.Inventory.AssetB.InexactFloat64(),
		buyBps.InexactFloat64(),
		sellBps.InexactFloat64(),
	)
	buys, sells := quote.Ladder.Counts()
	_, _, total, shareA := inventory.Value(quote.Inventory, quote.FairPrice)
	q.log.LogLadder("ladder_published", map[string]interface{}{
		"market":     cfg.MarketID,
		"fair_price": quote.FairPrice.String(),
		"asset_a":    quote.Inventory.AssetA.String(),
		"asset_b":    quote.Inventory.AssetB.String(),
		"value_b":    total.String(),
		"share_a":    shareA.StringFixed(4),
		"buys":       buys,
		"sells":      sells,
		"bid_bps":    buyBps.StringFixed(2),
		"ask_bps":    sellBps.StringFixed(2),
	})
	return quote, nil
}

// innerSpreads 返回最内层买/卖价相对公允价的距离（bp）。
func innerSpreads(q Quote) (buy, sell decimal.Decimal) {
	if bid, ok := q.Ladder.Best(pricing.Buy); ok {
		buy = q.FairPrice.Sub(bid.LimitPrice).Div(q.FairPrice).Mul(bps)
	}
	if ask, ok := q.Ladder.Best(pricing.Sell); ok {
		sell = ask.LimitPrice.Sub(q.FairPrice).Div(q.FairPrice).Mul(bps)
	}
	return buy, sell
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyInventory):
		return "empty_inventory"
	case errors.Is(err, ErrUnsafePrice):
		return "unsafe_price"
	case errors.Is(err, market.ErrNoPrice):
		return "no_price"
	case errors.Is(err, pricing.ErrInvalidParameter):
		return "invalid_parameter"
	}
	return "source"
}
