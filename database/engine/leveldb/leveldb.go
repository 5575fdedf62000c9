// Copyright (c) 2024 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package leveldb implements engine.Engine on top of goleveldb.
package leveldb

import (
	"errors"

	"github.com/bitcoinvm/bvm/database/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// NewDB opens the database at dbPath.  When create is set the database must
// not exist yet.
func NewDB(dbPath string, create bool) (engine.Engine, error) {
	opts := opt.Options{
		ErrorIfExist: create,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

// NewMemDB returns a database backed by memory only.
func NewMemDB() (engine.Engine, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &DB{DB: ldb}, nil
}

// DB wraps a goleveldb database.
type DB struct {
	*leveldb.DB
}

// Transaction opens a goleveldb transaction.  Only one transaction can be open
// at a time, further calls block until it is committed or discarded.
func (d *DB) Transaction() (engine.Transaction, error) {
	tx, err := d.DB.OpenTransaction()
	if err != nil {
		return nil, err
	}
	return &Transaction{Transaction: tx}, nil
}

// Snapshot returns a goleveldb snapshot of the committed state.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	snapshot, err := d.DB.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Snapshot: snapshot}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.DB.Close()
}

// Transaction wraps a goleveldb transaction.
type Transaction struct {
	*leveldb.Transaction
}

// Put stores value under key.
func (t *Transaction) Put(key, value []byte) error {
	return t.Transaction.Put(key, value, nil)
}

// Delete removes key.
func (t *Transaction) Delete(key []byte) error {
	return t.Transaction.Delete(key, nil)
}

// Snapshot wraps a goleveldb snapshot.
type Snapshot struct {
	*leveldb.Snapshot
}

// Has reports whether key exists.
func (s *Snapshot) Has(key []byte) (bool, error) {
	return s.Snapshot.Has(key, nil)
}

// Get returns the value stored under key.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	val, err := s.Snapshot.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	return val, err
}

// NewIterator returns an iterator over the range.
func (s *Snapshot) NewIterator(slice *engine.Range) engine.Iterator {
	return s.Snapshot.NewIterator(&util.Range{
		Start: slice.Start,
		Limit: slice.Limit,
	}, nil)
}
