package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/menu"
	"go.uber.org/zap"
)

// orderTimeLayout matches what browsers produce for Date.toISOString.
const orderTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// GuestAdapter browses another chef's menu and sends orders to them. It
// never registers, so it never receives orders.
type GuestAdapter struct {
	logger       *zap.Logger
	targetChefId string
	dial         Dialer
	menus        *MenuClient

	mu   sync.Mutex
	conn *RealtimeConn
}

func NewGuestAdapter(
	logger *zap.Logger,
	targetChefId string,
	dial Dialer,
	menus *MenuClient,
) *GuestAdapter {
	return &GuestAdapter{
		logger:       logger.With(zap.String("targetChefId", targetChefId)),
		targetChefId: targetChefId,
		dial:         dial,
		menus:        menus,
	}
}

func (g *GuestAdapter) TargetChefId() string {
	return g.targetChefId
}

// Connect opens the realtime connection used for orders. On failure the
// guest keeps working and orders go over HTTP.
func (g *GuestAdapter) Connect(ctx context.Context) error {
	conn, err := g.dial(ctx)
	if err != nil {
		g.logger.Warn("realtime connection unavailable, orders will be sent over http", zap.Error(err))
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		_ = g.conn.Close()
	}
	g.conn = conn

	return nil
}

// LoadMenu fetches the chef's menu and overlays it on local. Lists missing
// from the shared menu keep their local values. When the chef never shared
// a menu the error is ErrMenuNotFound and local is returned unchanged.
func (g *GuestAdapter) LoadMenu(ctx context.Context, local menu.Snapshot) (menu.Snapshot, error) {
	remote, err := g.menus.GetMenu(ctx, g.targetChefId)
	if err != nil {
		return local, err
	}

	return local.Merge(remote), nil
}

func (g *GuestAdapter) PlaceOrder(ctx context.Context, dish string) (broadcaster.Order, error) {
	return g.placeOrder(ctx, dish, time.Now())
}

func (g *GuestAdapter) placeOrder(ctx context.Context, dish string, at time.Time) (broadcaster.Order, error) {
	order := broadcaster.Order{
		Name: dish,
		Time: at.UTC().Format(orderTimeLayout),
	}

	conn := g.realtime()
	if conn != nil {
		err := conn.SendOrder(ctx, g.targetChefId, order)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ErrRealtimeUnavailable) {
			return order, err
		}

		g.logger.Warn("realtime order failed, retrying over http", zap.Error(err))
	}

	err := g.menus.SendOrder(ctx, g.targetChefId, order)
	if err != nil {
		return order, fmt.Errorf("send order: %w", err)
	}

	return order, nil
}

func (g *GuestAdapter) realtime() *RealtimeConn {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}

	select {
	case <-g.conn.Done():
		g.conn = nil
		return nil
	default:
		return g.conn
	}
}

func (g *GuestAdapter) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}

	err := g.conn.Close()
	g.conn = nil

	return err
}
