package container

import (
	"context"
	"time"

	"curve-mm-go/gateway"

	"go.uber.org/zap"
)

const venueReplyTimeout = 10 * time.Second

// handleVenueMessage 解码场所推回的消息并交给报价器；接受的询价回一条 fill_request。
// 在连接的读协程里同步执行，同一连接上的消息按到达顺序处理。
func (c *Container) handleVenueMessage(data []byte) {
	msg, err := gateway.DecodeInbound(data)
	if err != nil {
		c.logger.LogError(err, map[string]interface{}{"stage": "venue_message", "payload": string(data)})
		return
	}
	c.logger.Debug("venue message", zap.String("op", msg.Op))

	ctx, cancel := context.WithTimeout(context.Background(), venueReplyTimeout)
	defer cancel()
	reply, err := c.quoter.HandleMessage(ctx, msg)
	if err != nil {
		c.logger.LogError(err, map[string]interface{}{"stage": "venue_message", "op": msg.Op})
		return
	}
	if reply == nil {
		return
	}
	if err := c.ws.Send(ctx, reply); err != nil {
		c.logger.LogError(err, map[string]interface{}{"stage": "fill_request", "offer_id": reply.OfferID})
	}
}
