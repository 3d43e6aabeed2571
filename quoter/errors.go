package quoter

import (
	"errors"

	"curve-mm-go/market"
)

var (
	ErrEmptyInventory     = errors.New("inventory empty")
	ErrForeignMarket      = errors.New("offer for another market")
	ErrNegotiationPending = errors.New("negotiation already pending")
	ErrUnknownNegotiation = errors.New("unknown or expired negotiation")
	// ErrUnsafePrice is shared with the market package so a gated source and
	// the quoter's own check surface the same sentinel.
	ErrUnsafePrice = market.ErrUnsafePrice
)
