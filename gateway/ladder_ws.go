package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const defaultWriteTimeout = 5 * time.Second

// LadderWS 通过 websocket 推送阶梯。首次发布时才拨号；写失败即丢弃连接，
// 下一次发布重新拨号，不做后台重连。
type LadderWS struct {
	URL          string
	Dialer       *websocket.Dialer
	WriteTimeout time.Duration
	Limiter      *RateLimiter
	OnMessage    func([]byte) // 可选：场所推回的消息

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewLadderWS(url string, limiter *RateLimiter) *LadderWS {
	return &LadderWS{
		URL:          url,
		Dialer:       websocket.DefaultDialer,
		WriteTimeout: defaultWriteTimeout,
		Limiter:      limiter,
	}
}

func (p *LadderWS) Publish(ctx context.Context, msg LadderMessage) error {
	if err := p.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	if err := p.Send(ctx, msg); err != nil {
		return fmt.Errorf("write ladder: %w", err)
	}
	return nil
}

// Send 写一帧 JSON，不经过限流；回复场所的消息（如 fill_request）走这里。
func (p *LadderWS) Send(ctx context.Context, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		conn, _, err := p.Dialer.DialContext(ctx, p.URL, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", p.URL, err)
		}
		p.conn = conn
		go p.drain(conn)
	}

	deadline := time.Now().Add(p.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		p.dropLocked()
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := p.conn.WriteJSON(v); err != nil {
		p.dropLocked()
		return err
	}
	return nil
}

// Connected reports whether a connection is currently held.
func (p *LadderWS) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

func (p *LadderWS) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := p.conn.Close()
	p.conn = nil
	return err
}

// drain 读取并分发对端消息，同时处理 ping/close 控制帧；读出错说明连接已断。
func (p *LadderWS) drain(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			p.mu.Lock()
			if p.conn == conn {
				p.dropLocked()
			}
			p.mu.Unlock()
			return
		}
		if p.OnMessage != nil {
			p.OnMessage(data)
		}
	}
}

func (p *LadderWS) dropLocked() {
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
