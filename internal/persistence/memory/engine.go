package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/goevery/ordercast/internal/persistence"
)

// PersistenceEngine keeps snapshots in process memory. Everything is lost
// when the process exits.
type PersistenceEngine struct {
	mu        sync.RWMutex
	snapshots map[string]persistence.Snapshot
}

var _ persistence.Engine = (*PersistenceEngine)(nil)

func NewPersistenceEngine() *PersistenceEngine {
	return &PersistenceEngine{
		snapshots: make(map[string]persistence.Snapshot),
	}
}

func (e *PersistenceEngine) Get(ctx context.Context, chefId string) (persistence.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	snapshot, ok := e.snapshots[chefId]
	if !ok {
		return nil, persistence.ErrNotFound
	}

	return slices.Clone(snapshot), nil
}

func (e *PersistenceEngine) Put(ctx context.Context, chefId string, snapshot persistence.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.snapshots[chefId] = slices.Clone(snapshot)

	return nil
}

func (e *PersistenceEngine) Close() error {
	return nil
}
