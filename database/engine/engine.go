// Copyright (c) 2024 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"errors"
)

var (
	// ErrNotFound is returned by Snapshot.Get when the key does not exist.
	// Backends translate their own not found errors to this value.
	ErrNotFound = errors.New("engine: key not found")

	// ErrIterReleased is returned by Iterator.Error once the iterator has
	// been released.
	ErrIterReleased = errors.New("engine: iterator released")
)

// Engine is a key/value store with atomic write batches and consistent read
// views.
type Engine interface {
	// Transaction opens a write transaction.  Writes become visible to
	// new snapshots once Commit returns.
	Transaction() (Transaction, error)

	// Snapshot returns a read only view of the current committed state.
	Snapshot() (Snapshot, error)

	// Close closes the engine.  Closing an already closed engine returns
	// an error.
	Close() error
}

// Transaction groups writes that are committed atomically.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error

	// Commit applies all writes.  A transaction cannot be used after it
	// has been committed or discarded.
	Commit() error

	// Discard drops all writes.  It is safe to call more than once and
	// after Commit.
	Discard()
}

// Snapshot is a read only view of the engine at a point in time.
type Snapshot interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// NewIterator returns an iterator over the keys in the range.  A nil
	// Start or Limit leaves that side of the range open.
	NewIterator(*Range) Iterator

	Releaser
}

// Releaser is implemented by resources that must be released after use.
type Releaser interface {
	// Release releases the resource.  It is safe to call more than once.
	Release()
}
