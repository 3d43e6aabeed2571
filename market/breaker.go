package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
)

// BreakerSource 在价格源外加一层熔断：连续失败达到阈值后短路，Timeout 后半开重试。
type BreakerSource struct {
	src PriceSource
	cb  *gobreaker.CircuitBreaker
}

// NewBreakerSource trips after failures consecutive errors. failures == 0 defaults to 3.
func NewBreakerSource(name string, src PriceSource, failures uint32, timeout time.Duration) *BreakerSource {
	if failures == 0 {
		failures = 3
	}
	st := gobreaker.Settings{Name: name}
	st.Timeout = timeout
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= failures
	}
	return &BreakerSource{src: src, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerSource) FairPrice(ctx context.Context) (decimal.Decimal, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.src.FairPrice(ctx)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return res.(decimal.Decimal), nil
}

// State returns the breaker state name: closed, half-open or open.
func (b *BreakerSource) State() string {
	return b.cb.State().String()
}
