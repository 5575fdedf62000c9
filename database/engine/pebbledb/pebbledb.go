// Copyright (c) 2024 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb implements engine.Engine on top of CockroachDB's pebble.
package pebbledb

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/bitcoinvm/bvm/database/engine"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/cockroachdb/pebble/vfs"
)

var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
)

const (
	// DefaultCache is the block cache size in MiB used when none is given.
	DefaultCache = 64

	// DefaultHandles is the open file limit used when none is given.
	DefaultHandles = 16
)

// NewDB opens the database at dbPath with a block cache of cache MiB and at
// most handles open files.  When create is set the database must not exist
// yet.
func NewDB(dbPath string, create bool, cache, handles int) (engine.Engine, error) {
	return open(dbPath, newOptions(create, cache, handles))
}

// NewMemDB returns a database backed by an in memory file system.
func NewMemDB() (engine.Engine, error) {
	opts := newOptions(false, 0, 0)
	opts.FS = vfs.NewMem()
	return open("", opts)
}

func newOptions(create bool, cache, handles int) *pebble.Options {
	if cache <= 0 {
		cache = DefaultCache
	}
	if handles <= 0 {
		handles = DefaultHandles
	}

	levels := make([]pebble.LevelOptions, 7)
	targetFileSize := int64(2 * 1024 * 1024)
	for i := range levels {
		levels[i] = pebble.LevelOptions{
			TargetFileSize: targetFileSize,
			FilterPolicy:   bloom.FilterPolicy(10),
		}
		targetFileSize *= 2
	}

	opts := &pebble.Options{
		Cache:                    pebble.NewCache(int64(cache * 1024 * 1024)),
		ErrorIfExists:            create,
		MaxOpenFiles:             handles,
		MaxConcurrentCompactions: runtime.NumCPU,
		Levels:                   levels,
	}
	opts.Experimental.ReadSamplingMultiplier = -1
	return opts
}

func open(dbPath string, opts *pebble.Options) (engine.Engine, error) {
	// The database holds its own reference to the cache.
	defer opts.Cache.Unref()

	dbEngine, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}
	return &DB{DB: dbEngine}, nil
}

// DB wraps a pebble database.
type DB struct {
	*pebble.DB

	closed atomic.Bool
}

// Transaction returns a write batch that is applied on commit.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &Transaction{Batch: d.DB.NewBatch()}, nil
}

// Snapshot returns a pebble snapshot of the committed state.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &Snapshot{Snapshot: d.DB.NewSnapshot()}, nil
}

// Close closes the database.  Closing twice returns ErrDbClosed.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return ErrDbClosed
	}
	return d.DB.Close()
}

// Transaction wraps a pebble batch.
type Transaction struct {
	*pebble.Batch
	released bool
}

// Put stores value under key.
func (t *Transaction) Put(key, value []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Set(key, value, pebble.NoSync)
}

// Delete removes key.
func (t *Transaction) Delete(key []byte) error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Delete(key, pebble.NoSync)
}

// Discard drops the batch.
func (t *Transaction) Discard() {
	if !t.released {
		t.released = true
		t.Batch.Close()
	}
}

// Commit applies the batch and syncs it to disk.
func (t *Transaction) Commit() error {
	if t.released {
		return ErrTxClosed
	}
	return t.Batch.Commit(pebble.Sync)
}

// Snapshot wraps a pebble snapshot.
type Snapshot struct {
	*pebble.Snapshot
	released bool
}

// Has reports whether key exists.
func (s *Snapshot) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// Get returns a copy of the value stored under key.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	if s.released {
		return nil, ErrSnapshotReleased
	}

	ori, closer, err := s.Snapshot.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	val := make([]byte, len(ori))
	copy(val, ori)
	return val, nil
}

// Release releases the snapshot.
func (s *Snapshot) Release() {
	if !s.released {
		s.released = true
		s.Snapshot.Close()
	}
}

// NewIterator returns an iterator over the range, or nil when the snapshot
// has been released.
func (s *Snapshot) NewIterator(slice *engine.Range) engine.Iterator {
	if s.released {
		return nil
	}

	iter, _ := s.Snapshot.NewIter(&pebble.IterOptions{
		LowerBound: slice.Start,
		UpperBound: slice.Limit,
	})
	iter.SeekLT(slice.Start)
	return &Iterator{Iterator: iter}
}

// Iterator adapts a pebble iterator to engine.Iterator.
type Iterator struct {
	*pebble.Iterator
	released bool
}

// Seek moves to the first key greater than or equal to key.
func (i *Iterator) Seek(key []byte) bool {
	return i.Iterator.SeekGE(key)
}

// Key returns the current key, or nil once exhausted.
func (i *Iterator) Key() []byte {
	if !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Key()
}

// Value returns the current value, or nil once exhausted.
func (i *Iterator) Value() []byte {
	if !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Value()
}

// Release closes the iterator.
func (i *Iterator) Release() {
	if !i.released {
		i.released = true
		i.Iterator.Close()
	}
}

// Error returns the iterator error, or engine.ErrIterReleased after Release.
func (i *Iterator) Error() error {
	if i.released {
		return engine.ErrIterReleased
	}
	return i.Iterator.Error()
}
