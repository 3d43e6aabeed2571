package gateway

import (
	"context"

	"curve-mm-go/infrastructure/logger"
	"curve-mm-go/pricing"
)

// LogPublisher 只把阶梯写进日志，用于 dry-run。
type LogPublisher struct {
	Log *logger.Logger
}

func (p LogPublisher) Publish(ctx context.Context, msg LadderMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buys, sells := msg.Ladder.Counts()
	fields := map[string]interface{}{
		"market": msg.Market,
		"buys":   buys,
		"sells":  sells,
	}
	if s, ok := msg.Ladder.Best(pricing.Buy); ok {
		fields["best_bid"] = s.LimitPrice.String()
	}
	if s, ok := msg.Ladder.Best(pricing.Sell); ok {
		fields["best_ask"] = s.LimitPrice.String()
	}
	p.Log.LogLadder("ladder_dry_run", fields)
	return nil
}

func (p LogPublisher) Close() error { return nil }
