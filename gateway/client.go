package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"

	"tickmaker-go/engine"
	"tickmaker-go/infrastructure/logger"
)

// Handler 处理一期快照并返回决策。
type Handler func(engine.TickInput) engine.TickResult

// Client 维护到撮合器的 websocket 会话：
// 读快照 -> 调引擎 -> 写决策，断线后指数退避重连。
type Client struct {
	Endpoint string
	Log      *logger.Logger
	Dialer   *websocket.Dialer

	// MaxDialTries 限制单次重连的拨号尝试次数，0 表示不限。
	MaxDialTries uint
}

// Run blocks until ctx is done or a non-recoverable error occurs.
func (c *Client) Run(ctx context.Context, handle Handler) error {
	if c.Endpoint == "" {
		return errors.New("gateway endpoint required")
	}
	if handle == nil {
		return errors.New("gateway handler required")
	}
	log := c.Log
	if log == nil {
		log = logger.Nop()
	}
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	for {
		conn, err := c.dial(ctx, dialer)
		if err != nil {
			return fmt.Errorf("dial gateway: %w", err)
		}
		log.Info("gateway connected")

		err = c.session(ctx, conn, handle, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// 会话中断：记录后重连，滚动窗口状态由撮合器透传，不会丢失
		log.LogError(err, map[string]interface{}{"endpoint": c.Endpoint})
	}
}

func (c *Client) dial(ctx context.Context, dialer *websocket.Dialer) (*websocket.Conn, error) {
	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
	}
	if c.MaxDialTries > 0 {
		opts = append(opts, backoff.WithMaxTries(c.MaxDialTries))
	}
	return backoff.Retry(ctx, func() (*websocket.Conn, error) {
		conn, _, err := dialer.DialContext(ctx, c.Endpoint, nil)
		return conn, err
	}, opts...)
}

func (c *Client) session(ctx context.Context, conn *websocket.Conn, handle Handler, log *logger.Logger) error {
	// 撮合器按一问一答推进时钟，哪怕当期决策不了也必须应答
	var lastTraderData []byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read tick: %w", err)
		}
		snap, err := DecodeSnapshot(raw)
		if err != nil {
			// 契约违规：这一期不下单，空回包维持节奏，状态原样带回
			log.LogError(err, nil)
			out, encErr := EmptyDecision(lastTraderData)
			if encErr != nil {
				return encErr
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return fmt.Errorf("write decision: %w", err)
			}
			continue
		}
		result := handle(snap.ToTickInput())
		lastTraderData = result.TraderData
		out, err := EncodeDecision(result)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			return fmt.Errorf("write decision: %w", err)
		}
	}
}
