package inventory

import (
	"context"
	"sync"

	"curve-mm-go/pricing"
)

// Tracker 维护做市账户两种资产的余额，可作为报价器的余额来源。
type Tracker struct {
	mu  sync.RWMutex
	inv pricing.Inventory
}

// NewTracker seeds the tracker with starting balances.
func NewTracker(inv pricing.Inventory) *Tracker {
	return &Tracker{inv: inv}
}

// Snapshot returns a copy of the current balances.
func (t *Tracker) Snapshot() pricing.Inventory {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inv
}

// Balances implements the quoter's balance source.
func (t *Tracker) Balances(ctx context.Context) (pricing.Inventory, error) {
	if err := ctx.Err(); err != nil {
		return pricing.Inventory{}, err
	}
	return t.Snapshot(), nil
}

// Set 用外部同步到的余额覆盖本地状态。
func (t *Tracker) Set(inv pricing.Inventory) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inv = inv
}

// ApplyFill books a settled counter-offer. The fee is paid in the asset the
// maker receives, matching how the offer was evaluated.
func (t *Tracker) ApplyFill(offer pricing.TradeOffer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if offer.IsBuy {
		// 对手方买 A：我们卖出 A，收到 B
		t.inv.AssetA = t.inv.AssetA.Sub(offer.AssetA)
		t.inv.AssetB = t.inv.AssetB.Add(offer.AssetB).Sub(offer.Fee)
		return
	}
	t.inv.AssetA = t.inv.AssetA.Add(offer.AssetA).Sub(offer.Fee)
	t.inv.AssetB = t.inv.AssetB.Sub(offer.AssetB)
}

// IsEmpty reports whether both balances are zero.
func (t *Tracker) IsEmpty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inv.IsEmpty()
}
