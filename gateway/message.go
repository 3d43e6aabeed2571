// Package gateway 负责把报价阶梯推送到交易场所。
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curve-mm-go/pricing"

	"github.com/shopspring/decimal"
)

// OpIndicateLiquidity is the op carried by every ladder message.
const OpIndicateLiquidity = "indicate_liquidity"

// LadderMessage 是一次报价阶梯推送，ladder 编码为 [side, price, qty] 三元组数组。
type LadderMessage struct {
	Op       string         `json:"op"`
	Market   string         `json:"market"`
	ClientID string         `json:"clientId"`
	Ladder   pricing.Ladder `json:"ladder"`
}

// NewLadderMessage builds an indicate_liquidity message.
func NewLadderMessage(market, clientID string, ladder pricing.Ladder) LadderMessage {
	return LadderMessage{
		Op:       OpIndicateLiquidity,
		Market:   market,
		ClientID: clientID,
		Ladder:   ladder,
	}
}

// Publisher delivers ladders to a venue.
type Publisher interface {
	Publish(ctx context.Context, msg LadderMessage) error
	Close() error
}

// 场所推回的消息类型。
const (
	OpOffer       = "offer"        // 对手方挂单，需要估价
	OpSettle      = "settle"       // 协商结束，filled 表示成交
	OpFees        = "fees"         // 场所费率更新
	OpFillRequest = "fill_request" // 接受报价后回给场所
)

var ErrUnknownOp = errors.New("unknown op")

// InboundMessage 是场所推回的消息，按 op 只读取对应字段。
// side 取对手方视角：b 为对手方买入，s 为对手方卖出。
type InboundMessage struct {
	Op     string `json:"op"`
	Market string `json:"market,omitempty"`

	OfferID string          `json:"offerId,omitempty"`
	Side    pricing.Side    `json:"side,omitempty"`
	AssetA  decimal.Decimal `json:"assetA"`
	AssetB  decimal.Decimal `json:"assetB"`

	NegotiationID string `json:"negotiationId,omitempty"`
	Filled        bool   `json:"filled,omitempty"`

	BaseFee  decimal.Decimal `json:"baseFee"`
	QuoteFee decimal.Decimal `json:"quoteFee"`
}

// DecodeInbound parses a venue frame and checks the fields its op needs.
func DecodeInbound(data []byte) (InboundMessage, error) {
	var msg InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return InboundMessage{}, fmt.Errorf("decode inbound: %w", err)
	}
	switch msg.Op {
	case OpOffer:
		if msg.Side != pricing.Buy && msg.Side != pricing.Sell {
			return InboundMessage{}, fmt.Errorf("offer %s: invalid side %q", msg.OfferID, msg.Side)
		}
	case OpSettle:
		if msg.NegotiationID == "" {
			return InboundMessage{}, errors.New("settle: missing negotiationId")
		}
	case OpFees:
	default:
		return InboundMessage{}, fmt.Errorf("%w: %q", ErrUnknownOp, msg.Op)
	}
	return msg, nil
}

// FillRequest 告知场所接受了某个挂单，expiresAt 为 unix 秒。
type FillRequest struct {
	Op            string `json:"op"`
	Market        string `json:"market"`
	ClientID      string `json:"clientId"`
	OfferID       string `json:"offerId"`
	NegotiationID string `json:"negotiationId"`
	ExpiresAt     int64  `json:"expiresAt"`
}

func NewFillRequest(market, clientID, offerID, negotiationID string, expires time.Time) FillRequest {
	return FillRequest{
		Op:            OpFillRequest,
		Market:        market,
		ClientID:      clientID,
		OfferID:       offerID,
		NegotiationID: negotiationID,
		ExpiresAt:     expires.Unix(),
	}
}
