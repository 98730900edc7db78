// Package bench measures the depot engine against Pebble under the same
// point read and write workloads.
package bench

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/0xRadioAc7iv/go-depot/core"
)

// Store is the minimal key/value surface a workload drives.
type Store interface {
	Put(key, value []byte) error
	Get(key []byte) (value []byte, found bool, err error)
	Close() error
}

// DepotStore drives a depot engine.
type DepotStore struct {
	d     *core.Depot
	close func() error
}

// NewDepotStore wraps an open depot. Close is a no-op.
func NewDepotStore(d *core.Depot) *DepotStore {
	return &DepotStore{d: d, close: func() error { return nil }}
}

// OpenDepotStore opens (or creates) a depot file at path.
func OpenDepotStore(path string, opts ...core.Option) (*DepotStore, error) {
	fd, err := core.OpenFile(path, opts...)
	if err != nil {
		return nil, err
	}
	return &DepotStore{d: fd.Depot, close: fd.Close}, nil
}

func (s *DepotStore) Put(key, value []byte) error {
	return s.d.Put(core.BytesKey(key), value)
}

func (s *DepotStore) Get(key []byte) ([]byte, bool, error) {
	return s.d.Get(core.BytesKey(key))
}

func (s *DepotStore) Close() error {
	return s.close()
}

// PebbleStore drives a Pebble LSM database.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) a Pebble database in dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble: open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Put(key, value []byte) error {
	return s.db.Set(key, value, pebble.NoSync)
}

func (s *PebbleStore) Get(key []byte) ([]byte, bool, error) {
	val, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebble: get: %w", err)
	}
	// val is only valid until closer.Close().
	result := make([]byte, len(val))
	copy(result, val)
	closer.Close()
	return result, true, nil
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
