package quoter

import (
	"context"
	"fmt"

	"curve-mm-go/gateway"
	"curve-mm-go/pricing"
)

// HandleMessage dispatches one venue message. For an accepted offer it
// returns the fill_request to send back; every other case returns nil.
func (q *Quoter) HandleMessage(ctx context.Context, msg gateway.InboundMessage) (*gateway.FillRequest, error) {
	switch msg.Op {
	case gateway.OpOffer:
		dec, err := q.EvaluateOffer(ctx, Offer{
			ID:     msg.OfferID,
			Market: msg.Market,
			IsBuy:  msg.Side == pricing.Buy,
			AssetA: msg.AssetA,
			AssetB: msg.AssetB,
		})
		if err != nil || !dec.Accepted {
			return nil, err
		}
		cfg := q.Config()
		reply := gateway.NewFillRequest(cfg.MarketID, cfg.ClientID, msg.OfferID, dec.NegotiationID, dec.ExpiresAt)
		return &reply, nil
	case gateway.OpSettle:
		return nil, q.Settle(msg.NegotiationID, msg.Filled)
	case gateway.OpFees:
		if msg.Market != "" && msg.Market != q.Config().MarketID {
			return nil, fmt.Errorf("%w: %s", ErrForeignMarket, msg.Market)
		}
		q.SetFees(msg.BaseFee, msg.QuoteFee)
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", gateway.ErrUnknownOp, msg.Op)
}
