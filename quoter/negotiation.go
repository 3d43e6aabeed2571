package quoter

import (
	"context"
	"fmt"
	"time"

	"curve-mm-go/metrics"
	"curve-mm-go/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Offer is a counterparty order seen on the venue. IsBuy is from the
// counterparty's side.
type Offer struct {
	ID     string
	Market string
	IsBuy  bool
	AssetA decimal.Decimal
	AssetB decimal.Decimal
}

// Decision is the outcome of EvaluateOffer. NegotiationID is set only when
// the offer was accepted.
type Decision struct {
	Accepted      bool
	NegotiationID string
	ExpiresAt     time.Time
	Evaluation    pricing.Evaluation
}

type negotiation struct {
	id      string
	offerID string
	trade   pricing.TradeOffer
	expires time.Time
}

// EvaluateOffer checks a counter-offer against the curve. Only one accepted
// offer may be outstanding; it is released by Settle or by expiry.
func (q *Quoter) EvaluateOffer(ctx context.Context, offer Offer) (Decision, error) {
	q.offerMu.Lock()
	defer q.offerMu.Unlock()

	cfg := q.Config()
	if offer.Market != cfg.MarketID {
		metrics.RecordOffer(metrics.OfferForeign)
		return Decision{}, fmt.Errorf("%w: %s", ErrForeignMarket, offer.Market)
	}
	if id, ok := q.Pending(); ok {
		metrics.RecordOffer(metrics.OfferPending)
		return Decision{}, fmt.Errorf("%w: %s", ErrNegotiationPending, id)
	}
	if !offer.AssetA.IsPositive() || !offer.AssetB.IsPositive() {
		metrics.RecordOffer(metrics.OfferError)
		return Decision{}, fmt.Errorf("%w: offer amounts must be > 0", pricing.ErrInvalidParameter)
	}

	inv, fair, err := q.snapshot(ctx, cfg)
	if err != nil {
		metrics.RecordOffer(metrics.OfferError)
		q.log.LogError(err, map[string]interface{}{"stage": "evaluate_offer", "offer_id": offer.ID})
		return Decision{}, err
	}

	trade := pricing.TradeOffer{
		IsBuy:  offer.IsBuy,
		AssetA: offer.AssetA,
		AssetB: offer.AssetB,
		Fee:    cfg.feeFor(offer.IsBuy),
	}
	if !offer.IsBuy && !trade.AssetA.GreaterThan(trade.Fee) {
		metrics.RecordOffer(metrics.OfferError)
		return Decision{}, fmt.Errorf("%w: sell amount %s does not cover fee %s", pricing.ErrInvalidParameter, trade.AssetA, trade.Fee)
	}
	ev, err := pricing.EvaluateTrade(cfg.Curve, fair, inv, trade)
	if err != nil {
		metrics.RecordOffer(metrics.OfferError)
		return Decision{}, err
	}

	fields := map[string]interface{}{
		"side":           pricing.Sell.String(),
		"asset_a":        offer.AssetA.String(),
		"asset_b":        offer.AssetB.String(),
		"fee":            trade.Fee.String(),
		"fair_price":     fair.String(),
		"spread_bp":      ev.SpreadBp.StringFixed(4),
		"required_price": ev.RequiredPrice.String(),
		"offered_price":  ev.OfferedPrice.String(),
	}
	if offer.IsBuy {
		fields["side"] = pricing.Buy.String()
	}
	if !ev.Accepted {
		metrics.RecordOffer(metrics.OfferRejected)
		q.log.LogOffer("offer_rejected", offer.ID, fields)
		return Decision{Evaluation: ev}, nil
	}

	n := &negotiation{
		id:      uuid.NewString(),
		offerID: offer.ID,
		trade:   trade,
		expires: q.now().Add(cfg.NegotiationTTL),
	}
	q.mu.Lock()
	q.pending = n
	q.mu.Unlock()

	metrics.RecordOffer(metrics.OfferAccepted)
	fields["negotiation_id"] = n.id
	q.log.LogOffer("offer_accepted", offer.ID, fields)
	return Decision{Accepted: true, NegotiationID: n.id, ExpiresAt: n.expires, Evaluation: ev}, nil
}

// Pending returns the outstanding negotiation id, clearing it first if expired.
func (q *Quoter) Pending() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		return "", false
	}
	if !q.now().Before(q.pending.expires) {
		q.log.LogOffer("negotiation_expired", q.pending.offerID, map[string]interface{}{
			"negotiation_id": q.pending.id,
		})
		q.pending = nil
		return "", false
	}
	return q.pending.id, true
}

// Settle releases the negotiation lock. When filled the trade is handed to
// the FillRecorder, if one is configured.
func (q *Quoter) Settle(id string, filled bool) error {
	if _, ok := q.Pending(); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNegotiation, id)
	}
	q.mu.Lock()
	n := q.pending
	if n == nil || n.id != id {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNegotiation, id)
	}
	q.pending = nil
	q.mu.Unlock()

	if filled && q.fills != nil {
		q.fills.ApplyFill(n.trade)
	}
	q.log.LogOffer("negotiation_settled", n.offerID, map[string]interface{}{
		"negotiation_id": n.id,
		"filled":         filled,
	})
	return nil
}
