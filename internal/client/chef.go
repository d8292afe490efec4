package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/menu"
	"go.uber.org/zap"
)

type ChefAdapter struct {
	logger   *zap.Logger
	chefId   string
	dial     Dialer
	menus    *MenuClient
	notifier Notifier
	backOff  func() backoff.BackOff

	online atomic.Bool

	mu      sync.Mutex
	pending []broadcaster.Order
}

func NewChefAdapter(
	logger *zap.Logger,
	chefId string,
	dial Dialer,
	menus *MenuClient,
	notifier Notifier,
) *ChefAdapter {
	return &ChefAdapter{
		logger:   logger.With(zap.String("chefId", chefId)),
		chefId:   chefId,
		dial:     dial,
		menus:    menus,
		notifier: notifier,
		backOff:  defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0

	return b
}

// WithBackOff replaces the reconnect policy.
func (a *ChefAdapter) WithBackOff(newBackOff func() backoff.BackOff) *ChefAdapter {
	a.backOff = newBackOff

	return a
}

func (a *ChefAdapter) ChefId() string {
	return a.chefId
}

// Online reports whether the adapter currently holds a registered
// connection. While offline the chef simply does not receive orders.
func (a *ChefAdapter) Online() bool {
	return a.online.Load()
}

// PendingOrders returns the received orders, oldest first.
func (a *ChefAdapter) PendingOrders() []broadcaster.Order {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.pending)
}

func (a *ChefAdapter) ClearPendingOrders() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending = nil
}

func (a *ChefAdapter) ShareMenu(ctx context.Context, snapshot menu.Snapshot) error {
	err := snapshot.Validate()
	if err != nil {
		return err
	}

	err = a.menus.SaveMenu(ctx, a.chefId, snapshot)
	if err != nil {
		return fmt.Errorf("share menu: %w", err)
	}

	return nil
}

// Run keeps a registered connection open until ctx is done, reconnecting with
// backoff whenever the connection is lost. A registration the server rejects
// is returned, since retrying it cannot succeed.
func (a *ChefAdapter) Run(ctx context.Context) error {
	retry := backoff.WithContext(a.backOff(), ctx)

	for {
		registered, err := a.session(ctx)
		if ctx.Err() != nil {
			return nil
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		if registered {
			retry.Reset()
		}

		delay := retry.NextBackOff()
		if delay == backoff.Stop {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("giving up on realtime connection: %w", err)
		}

		a.logger.Warn("realtime connection unavailable, orders will not arrive until it is back",
			zap.Error(err),
			zap.Duration("retryIn", delay))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (a *ChefAdapter) session(ctx context.Context) (bool, error) {
	conn, err := a.dial(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	err = conn.RegisterChef(ctx, a.chefId)
	if err != nil {
		if !errors.Is(err, ErrRealtimeUnavailable) && ctx.Err() == nil {
			return false, backoff.Permanent(fmt.Errorf("register chef: %w", err))
		}

		return false, fmt.Errorf("register chef: %w", err)
	}

	a.online.Store(true)
	defer a.online.Store(false)

	a.logger.Info("registered for orders")

	for {
		select {
		case order, ok := <-conn.Orders():
			if !ok {
				err = conn.Err()
				if err == nil {
					err = errors.New("connection closed")
				}
				return true, err
			}
			a.receive(order)
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
}

func (a *ChefAdapter) receive(order broadcaster.Order) {
	a.mu.Lock()
	a.pending = append(a.pending, order)
	a.mu.Unlock()

	err := a.notifier.Notify(order)
	if err != nil {
		a.logger.Warn("order notification failed, order kept in pending list",
			zap.String("dish", order.Name),
			zap.Error(err))
	}
}
