package persistence

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a chef's menu document as received from the chef, kept verbatim.
type Snapshot []byte

// Engine stores at most one snapshot per chef. Put replaces any previous
// snapshot; concurrent writers for the same chef are last-write-wins.
type Engine interface {
	Get(ctx context.Context, chefId string) (Snapshot, error)
	Put(ctx context.Context, chefId string, snapshot Snapshot) error
	Close() error
}
