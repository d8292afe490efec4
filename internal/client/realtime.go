package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrRealtimeUnavailable = errors.New("realtime connection unavailable")

const (
	writeWait   = 10 * time.Second
	ordersQueue = 64
)

// Dialer opens a realtime connection. Adapters take a Dialer so that every
// reconnect goes through the same path.
type Dialer func(ctx context.Context) (*RealtimeConn, error)

func NewDialer(logger *zap.Logger, serverURL string) Dialer {
	return func(ctx context.Context) (*RealtimeConn, error) {
		return DialRealtime(ctx, logger, serverURL)
	}
}

// RealtimeConn is the client end of the websocket session. Replies are
// matched to calls by request id, new-order notifications go to Orders.
type RealtimeConn struct {
	logger *zap.Logger
	conn   *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	nextId  int
	pending map[int]chan handler.Response
	err     error

	orders    chan broadcaster.Order
	closing   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

func DialRealtime(ctx context.Context, logger *zap.Logger, serverURL string) (*RealtimeConn, error) {
	wsURL, err := websocketURL(serverURL)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRealtimeUnavailable, err)
	}

	c := &RealtimeConn{
		logger:  logger,
		conn:    conn,
		pending: make(map[int]chan handler.Response),
		orders:  make(chan broadcaster.Order, ordersQueue),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.readLoop()

	return c, nil
}

func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/websocket"

	return u.String(), nil
}

// Orders is closed when the connection ends.
func (c *RealtimeConn) Orders() <-chan broadcaster.Order {
	return c.orders
}

func (c *RealtimeConn) Done() <-chan struct{} {
	return c.done
}

// Err reports why the connection ended.
func (c *RealtimeConn) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.err
}

func (c *RealtimeConn) RegisterChef(ctx context.Context, chefId string) error {
	return c.call(ctx, handler.MethodRegisterChef, handler.RegisterChefRequest{ChefId: chefId}, nil)
}

func (c *RealtimeConn) SendOrder(ctx context.Context, chefId string, order broadcaster.Order) error {
	return c.call(ctx, handler.MethodSendOrder, handler.SendOrderRequest{ChefId: chefId, Order: order}, nil)
}

func (c *RealtimeConn) Heartbeat(ctx context.Context) (handler.HeartbeatResponse, error) {
	var resp handler.HeartbeatResponse
	err := c.call(ctx, handler.MethodHeartbeat, nil, &resp)

	return resp, err
}

// Close also releases a read loop blocked on a full Orders queue; queued
// and in-flight orders are dropped.
func (c *RealtimeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closing)
	})

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	return c.conn.Close()
}

func (c *RealtimeConn) call(ctx context.Context, method string, params any, result any) error {
	req := handler.Request{Method: method}
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("encode %s params: %w", method, err)
		}
		raw := json.RawMessage(data)
		req.Params = &raw
	}

	replies := make(chan handler.Response, 1)

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.nextId++
	req.Id = c.nextId
	c.pending[req.Id] = replies
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.Id)
		c.mu.Unlock()
	}()

	err := c.write(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRealtimeUnavailable, err)
	}

	select {
	case resp := <-replies:
		if resp.IsFailure() {
			return *resp.Error
		}
		if result != nil && resp.Result != nil {
			err = json.Unmarshal(*resp.Result, result)
			if err != nil {
				return fmt.Errorf("decode %s result: %w", method, err)
			}
		}

		return nil
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RealtimeConn) write(req handler.Request) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	err := c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		return err
	}

	return c.conn.WriteJSON(req)
}

type inbound struct {
	handler.Response
	Method string           `json:"method"`
	Params *json.RawMessage `json:"params"`
}

func (c *RealtimeConn) readLoop() {
	defer close(c.done)
	defer close(c.orders)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.fail(err)
			return
		}

		var msg inbound
		err = json.Unmarshal(data, &msg)
		if err != nil {
			c.logger.Warn("discarding undecodable server message", zap.Error(err))
			continue
		}

		if msg.Method != "" {
			c.notify(msg.Method, msg.Params)
			continue
		}

		c.mu.Lock()
		replies, ok := c.pending[msg.RequestId]
		c.mu.Unlock()

		if !ok {
			c.logger.Debug("reply for unknown request", zap.Int("requestId", msg.RequestId))
			continue
		}

		replies <- msg.Response
	}
}

func (c *RealtimeConn) notify(method string, params *json.RawMessage) {
	if method != broadcaster.EventNewOrder {
		c.logger.Debug("ignoring notification", zap.String("method", method))
		return
	}
	if params == nil {
		c.logger.Warn("new-order without payload")
		return
	}

	var order broadcaster.Order
	err := json.Unmarshal(*params, &order)
	if err != nil {
		c.logger.Warn("discarding undecodable order", zap.Error(err))
		return
	}

	select {
	case c.orders <- order:
	case <-c.closing:
		c.logger.Debug("dropping order, connection closing", zap.String("dish", order.Name))
	}
}

func (c *RealtimeConn) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.err = fmt.Errorf("%w: connection closed", ErrRealtimeUnavailable)
	} else {
		c.err = fmt.Errorf("%w: %v", ErrRealtimeUnavailable, err)
	}
}

