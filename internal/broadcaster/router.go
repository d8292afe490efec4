package broadcaster

import (
	"go.uber.org/zap"
)

// EventRouter fans orders out to the connections registered under a chef
// identifier. Delivery is fire-and-forget: orders for a chef with no live
// connection are dropped and nothing is kept for later.
type EventRouter struct {
	logger   *zap.Logger
	registry Registry
}

func NewEventRouter(
	logger *zap.Logger,
	registry Registry,
) *EventRouter {
	return &EventRouter{
		logger,
		registry,
	}
}

// Publish returns the number of connections the order was handed to.
func (r *EventRouter) Publish(chefId string, order Order) int {
	connections := r.registry.Lookup(chefId)
	if len(connections) == 0 {
		r.logger.Debug("no connection registered for chef, dropping order",
			zap.String("chefId", chefId))

		return 0
	}

	event := Event{
		Name:    EventNewOrder,
		Payload: order,
	}

	delivered := 0

	for _, connection := range connections {
		if connection.Deliver(event) {
			delivered++

			continue
		}

		r.logger.Warn("connection unable to accept order, closing connection",
			zap.String("chefId", chefId),
			zap.String("connectionId", connection.Id))

		r.registry.Unregister(connection.Id)
		connection.Close()
	}

	return delivered
}
