// Package polymarketevents streams live trade events from the Polymarket
// real-time feed. It is an optional alternative input to REST polling: the
// monitor filters the firehose down to the watched wallet.
package polymarketevents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client maintains one WebSocket connection to the live trade feed and
// forwards raw event frames over a buffered channel.
type Client struct {
	logger *zap.Logger

	wsURL        string
	dialer       *websocket.Dialer
	pingInterval time.Duration

	connMu  sync.Mutex
	writeMu sync.Mutex
	conn    *websocket.Conn

	msgCh   chan json.RawMessage
	errCh   chan error
	closeCh chan struct{}
}

func NewClient(logger *zap.Logger, wsURL string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger:       logger,
		wsURL:        wsURL,
		dialer:       websocket.DefaultDialer,
		pingInterval: 10 * time.Second,

		msgCh:   make(chan json.RawMessage, 1024),
		errCh:   make(chan error, 16),
		closeCh: make(chan struct{}),
	}
}

// Connect dials the feed and subscribes to the trades topic. The connection
// is closed when ctx is cancelled.
func (c *Client) Connect(ctx context.Context) error {
	c.connMu.Lock()
	alreadyConnected := c.conn != nil
	c.connMu.Unlock()
	if alreadyConnected {
		return fmt.Errorf("already connected")
	}

	conn, _, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial live feed: %w", err)
	}

	c.logger.Info("live feed connected", zap.String("url", c.wsURL))

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	sub := map[string]any{
		"action": "subscribe",
		"subscriptions": []map[string]string{
			{"topic": "activity", "type": "trades"},
		},
	}

	if err := c.writeJSON(sub); err != nil {
		_ = conn.Close()
		c.connMu.Lock()
		c.conn = nil
		c.connMu.Unlock()
		return fmt.Errorf("send subscription: %w", err)
	}

	go c.readLoop()
	go c.pingLoop()

	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-c.closeCh:
		}
	}()

	return nil
}

// Messages returns the channel of raw event frames.
func (c *Client) Messages() <-chan json.RawMessage {
	return c.msgCh
}

// Errors returns the channel of fatal read errors. A receive here means the
// connection is gone.
func (c *Client) Errors() <-chan error {
	return c.errCh
}

// TradeEvent is a trade frame from the live feed. Numeric fields arrive as
// strings.
type TradeEvent struct {
	EventType       string `json:"event_type"`
	Side            string `json:"side"`
	Size            string `json:"size"`
	Price           string `json:"price"`
	Timestamp       string `json:"timestamp"`
	TransactionHash string `json:"transaction_hash"`
	MakerAddress    string `json:"maker_address"`
	TakerAddress    string `json:"taker_address"`
	Title           string `json:"title"`
	Outcome         string `json:"outcome"`
}

// ParseTradeEvent attempts to parse a frame as a TradeEvent. Returns nil for
// frames of any other event type.
func ParseTradeEvent(data json.RawMessage) *TradeEvent {
	var event TradeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil
	}
	if event.EventType != "trade" && event.EventType != "last_trade_price" {
		return nil
	}
	return &event
}

// InvolvesWallet reports whether the wallet address appears on either side of
// the trade. The comparison is case-insensitive.
func (e *TradeEvent) InvolvesWallet(wallet string) bool {
	return strings.EqualFold(e.MakerAddress, wallet) || strings.EqualFold(e.TakerAddress, wallet)
}

// SizeFloat returns the size as a float64, zero on parse failure.
func (e *TradeEvent) SizeFloat() float64 {
	f, _ := strconv.ParseFloat(e.Size, 64)
	return f
}

// PriceFloat returns the price as a float64, zero on parse failure.
func (e *TradeEvent) PriceFloat() float64 {
	f, _ := strconv.ParseFloat(e.Price, 64)
	return f
}

// TimestampUnix returns the timestamp as Unix seconds, zero when absent.
func (e *TradeEvent) TimestampUnix() int64 {
	ts, _ := strconv.ParseInt(e.Timestamp, 10, 64)
	return ts
}

// Close tears down the connection and stops the read and ping loops.
func (c *Client) Close() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	select {
	case <-c.closeCh:
	default:
		close(c.closeCh)
	}

	var err error
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}

	return err
}

func (c *Client) writeJSON(v any) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return conn.WriteJSON(v)
}

func (c *Client) pingLoop() {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.connMu.Lock()
			conn := c.conn
			c.connMu.Unlock()

			if conn != nil {
				c.writeMu.Lock()
				_ = conn.WriteMessage(websocket.TextMessage, []byte("PING"))
				c.writeMu.Unlock()
			}

		case <-c.closeCh:
			return
		}
	}
}

func (c *Client) readLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		default:
		}

		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			c.logger.Warn("live feed read error", zap.Error(err))
			select {
			case c.errCh <- err:
			default:
			}
			_ = c.Close()
			return
		}

		// Server replies to keepalives with plain text.
		if string(b) == "PONG" || string(b) == "PING" {
			continue
		}

		c.emitFrame(b)
	}
}

// emitFrame forwards a frame, unrolling batched arrays into single events.
func (c *Client) emitFrame(b []byte) {
	trimmed := []byte(strings.TrimLeft(string(b), " \n\t\r"))
	if len(trimmed) == 0 {
		return
	}

	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			c.logger.Warn("live feed bad batch frame", zap.Error(err))
			return
		}
		for _, one := range arr {
			c.forward(one)
		}
		return
	}

	c.forward(json.RawMessage(append([]byte(nil), trimmed...)))
}

func (c *Client) forward(msg json.RawMessage) {
	select {
	case c.msgCh <- msg:
	default:
		c.logger.Warn("dropping live feed message: channel full")
	}
}
