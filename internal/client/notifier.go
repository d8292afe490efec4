package client

import (
	"fmt"
	"io"
	"sync"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/gookit/color"
	"go.uber.org/zap"
)

// Notifier tells the chef about an order. A failing Notifier never loses the
// order; it is already in the pending list.
type Notifier interface {
	Notify(order broadcaster.Order) error
}

type TerminalNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminalNotifier(out io.Writer) *TerminalNotifier {
	return &TerminalNotifier{
		out: out,
	}
}

func (n *TerminalNotifier) Notify(order broadcaster.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintf(n.out, "%s %s %s\n",
		color.FgYellow.Render("新订单"),
		color.Bold.Render(order.Name),
		color.FgGray.Render(order.Time))

	return err
}

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger,
	}
}

func (n *LogNotifier) Notify(order broadcaster.Order) error {
	n.logger.Info("new order",
		zap.String("dish", order.Name),
		zap.String("time", order.Time))

	return nil
}

// MultiNotifier tries every notifier and returns the first failure.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(order broadcaster.Order) error {
	var firstErr error
	for _, notifier := range m {
		err := notifier.Notify(order)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
