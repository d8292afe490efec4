package broadcaster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/goevery/ordercast/internal/ierr"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Registry associates live connections with the chef identifier they
// registered as. It never owns the connections.
type Registry interface {
	Register(connection *Connection, chefId string) error
	Unregister(connectionId string)
	Lookup(chefId string) []*Connection
}

type InMemoryRegistry struct {
	logger *zap.Logger
	mu     sync.RWMutex

	connections         map[string]*Connection
	connectionsByChef   map[string]map[string]struct{}
	chefsByConnectionId map[string]string
}

func NewInMemoryRegistry(
	logger *zap.Logger,
) *InMemoryRegistry {
	return &InMemoryRegistry{
		logger:              logger,
		connections:         make(map[string]*Connection),
		connectionsByChef:   make(map[string]map[string]struct{}),
		chefsByConnectionId: make(map[string]string),
	}
}

// Register is idempotent for the same chefId. A connection already
// registered under another chefId is rejected.
func (r *InMemoryRegistry) Register(connection *Connection, chefId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.chefsByConnectionId[connection.Id]; ok {
		if current == chefId {
			return nil
		}

		return ierr.New(ierr.ErrorCodeFailedPrecondition,
			fmt.Errorf("connection already registered as chef %q", current))
	}

	if connection.IsClosed() {
		return ierr.New(ierr.ErrorCodeFailedPrecondition, errors.New("connection is closed"))
	}

	if _, ok := r.connectionsByChef[chefId]; !ok {
		r.connectionsByChef[chefId] = make(map[string]struct{})
	}

	r.connectionsByChef[chefId][connection.Id] = struct{}{}
	r.chefsByConnectionId[connection.Id] = chefId
	r.connections[connection.Id] = connection

	connection.setChefId(chefId)

	r.logger.Debug("chef registered",
		zap.String("chefId", chefId),
		zap.String("connectionId", connection.Id))

	return nil
}

// Unregister drops every association of the connection. Unknown ids are
// ignored so that every disconnect path can call it.
func (r *InMemoryRegistry) Unregister(connectionId string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chefId, ok := r.chefsByConnectionId[connectionId]
	if !ok {
		return
	}

	chefConnections, ok := r.connectionsByChef[chefId]
	if !ok {
		panic("inconsistent state: chef not found in connectionsByChef")
	}

	delete(chefConnections, connectionId)
	if len(chefConnections) == 0 {
		delete(r.connectionsByChef, chefId)
	}

	delete(r.chefsByConnectionId, connectionId)
	delete(r.connections, connectionId)

	r.logger.Debug("chef unregistered",
		zap.String("chefId", chefId),
		zap.String("connectionId", connectionId))
}

// Lookup returns a copy of the connections registered under chefId.
func (r *InMemoryRegistry) Lookup(chefId string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connectionIds, ok := r.connectionsByChef[chefId]
	if !ok {
		return nil
	}

	return lo.FilterMap(lo.Keys(connectionIds), func(connectionId string, _ int) (*Connection, bool) {
		connection, ok := r.connections[connectionId]

		return connection, ok
	})
}
