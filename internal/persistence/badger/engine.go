package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goevery/ordercast/internal/persistence"
	"go.uber.org/zap"
)

const keyPrefix = "menu:"

// PersistenceEngine stores snapshots in a badger database opened in
// in-memory mode, so nothing survives a restart.
type PersistenceEngine struct {
	db *badger.DB
}

var _ persistence.Engine = (*PersistenceEngine)(nil)

func NewPersistenceEngine(logger *zap.Logger) (*PersistenceEngine, error) {
	options := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(newLogger(logger)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &PersistenceEngine{
		db,
	}, nil
}

func (e *PersistenceEngine) Get(ctx context.Context, chefId string) (persistence.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var snapshot persistence.Snapshot

	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(chefId))
		if err != nil {
			return err
		}

		snapshot, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	return snapshot, nil
}

func (e *PersistenceEngine) Put(ctx context.Context, chefId string, snapshot persistence.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(chefId), snapshot)
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}

func (e *PersistenceEngine) Close() error {
	return e.db.Close()
}

func key(chefId string) []byte {
	return []byte(keyPrefix + chefId)
}

// logger routes badger's internal logging through zap.
type logger struct {
	sugar *zap.SugaredLogger
}

func newLogger(l *zap.Logger) *logger {
	return &logger{
		l.Named("badger").Sugar(),
	}
}

func (l *logger) Errorf(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

func (l *logger) Warningf(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

func (l *logger) Infof(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

func (l *logger) Debugf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}
