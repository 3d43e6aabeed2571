// Package market 提供公允价来源：静态价、HTTP 价格源，以及熔断与安全区间两层包装。
package market

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoPrice 价格源没有给出正数价格。
	ErrNoPrice = errors.New("no reference price")
	// ErrUnsafePrice 参考价落在安全区间之外，不能用于报价。
	ErrUnsafePrice = errors.New("reference price outside safety gate")
)

// PriceSource yields the fair price of asset A in units of asset B.
type PriceSource interface {
	FairPrice(ctx context.Context) (decimal.Decimal, error)
}

// SourceFunc adapts a function to PriceSource.
type SourceFunc func(ctx context.Context) (decimal.Decimal, error)

func (f SourceFunc) FairPrice(ctx context.Context) (decimal.Decimal, error) {
	return f(ctx)
}

// StaticSource always returns Price. Used for dry runs and tests.
type StaticSource struct {
	Price decimal.Decimal
}

func (s StaticSource) FairPrice(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	if !s.Price.IsPositive() {
		return decimal.Zero, ErrNoPrice
	}
	return s.Price, nil
}
