// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package statechain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/bitcoinvm/bvm/database/engine"
	"github.com/bitcoinvm/bvm/entry"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

var (
	// ErrStateNotFound is returned when a state hash is not in the
	// journal.
	ErrStateNotFound = errors.New("statechain: state not found")

	// ErrChainBroken is returned when a stored transfer does not hash to
	// the state it is stored under.
	ErrChainBroken = errors.New("statechain: chain broken")

	// ErrGenesisMismatch is returned when a journal is opened with a
	// genesis state other than the one it was created with.
	ErrGenesisMismatch = errors.New("statechain: genesis mismatch")

	// ErrCorruptRecord is returned when a stored record cannot be decoded.
	ErrCorruptRecord = errors.New("statechain: corrupt record")

	// ErrInvalidTransfer is returned when a transfer cannot be stored
	// because its serialization does not decode back.
	ErrInvalidTransfer = errors.New("statechain: invalid transfer")
)

const (
	// knownStateCacheSize is the number of state hashes remembered as
	// present without a database lookup.
	knownStateCacheSize = 1000

	// recordSize is the size of a stored state record: the previous state
	// hash followed by the serialized transfer.
	recordSize = chainhash.HashSize + entry.TransferSerializeSize
)

var (
	// genesisKey holds the genesis state hash.
	genesisKey = []byte("genesis")

	// tipKey holds the latest state hash.
	tipKey = []byte("tip")

	// heightKey holds the number of applied transfers as a little-endian
	// uint64.
	heightKey = []byte("height")

	// statePrefix prefixes every state record key.
	statePrefix = []byte("s/")
)

// stateKey returns the record key of state.
func stateKey(state chainhash.Hash) []byte {
	key := make([]byte, 0, len(statePrefix)+chainhash.HashSize)
	key = append(key, statePrefix...)
	return append(key, state[:]...)
}

// Journal is a persisted hash chain of applied transfers.  Every applied
// transfer moves the tip to the transfer's sighash over the previous tip.
//
// Apply is serialized by the journal.  Reads run against engine snapshots and
// may proceed concurrently.
type Journal struct {
	db      engine.Engine
	genesis chainhash.Hash

	mtx    sync.Mutex
	tip    chainhash.Hash
	height uint64

	// known holds state hashes confirmed to be present.
	known lru.Cache
}

// Open loads the journal stored in db, initializing it with genesis as the
// tip when db is empty.
func Open(db engine.Engine, genesis chainhash.Hash) (*Journal, error) {
	j := &Journal{
		db:      db,
		genesis: genesis,
		tip:     genesis,
		known:   lru.NewCache(knownStateCacheSize),
	}

	snap, err := db.Snapshot()
	if err != nil {
		return nil, err
	}
	defer snap.Release()

	stored, err := snap.Get(genesisKey)
	switch {
	case errors.Is(err, engine.ErrNotFound):
		if err := j.initialize(); err != nil {
			return nil, err
		}
		log.Infof("Initialized state journal at genesis %v", genesis)
		return j, nil

	case err != nil:
		return nil, err
	}

	if !genesis.IsEqual(hashFromBytes(stored)) {
		return nil, fmt.Errorf("%w: stored %x, requested %v",
			ErrGenesisMismatch, stored, genesis)
	}

	tip, err := snap.Get(tipKey)
	if err != nil {
		return nil, fmt.Errorf("load tip: %w", err)
	}
	height, err := snap.Get(heightKey)
	if err != nil {
		return nil, fmt.Errorf("load height: %w", err)
	}
	if len(tip) != chainhash.HashSize || len(height) != 8 {
		return nil, ErrCorruptRecord
	}

	j.tip = *hashFromBytes(tip)
	j.height = binary.LittleEndian.Uint64(height)

	log.Infof("Loaded state journal: tip %v, height %d", j.tip, j.height)

	return j, nil
}

// initialize writes the metadata of an empty journal.
func (j *Journal) initialize() error {
	tx, err := j.db.Transaction()
	if err != nil {
		return err
	}
	defer tx.Discard()

	if err := tx.Put(genesisKey, j.genesis[:]); err != nil {
		return err
	}
	if err := tx.Put(tipKey, j.genesis[:]); err != nil {
		return err
	}
	if err := tx.Put(heightKey, make([]byte, 8)); err != nil {
		return err
	}
	return tx.Commit()
}

// hashFromBytes copies b into a hash.  Short input leaves the tail zeroed.
func hashFromBytes(b []byte) *chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], b)
	return &h
}

// Genesis returns the state the journal starts from.
func (j *Journal) Genesis() chainhash.Hash {
	return j.genesis
}

// Tip returns the latest state hash and the number of applied transfers.
func (j *Journal) Tip() (chainhash.Hash, uint64) {
	j.mtx.Lock()
	defer j.mtx.Unlock()

	return j.tip, j.height
}

// Apply appends tr to the journal and returns the new tip.  A transfer whose
// serialization does not decode back, such as one holding a missing account
// key, is rejected with ErrInvalidTransfer and leaves the journal unchanged.
func (j *Journal) Apply(tr entry.Transfer) (chainhash.Hash, error) {
	serialized := tr.Serialize()
	if _, err := entry.FromBytes(serialized); err != nil {
		return chainhash.Hash{}, fmt.Errorf("%w: %v", ErrInvalidTransfer,
			err)
	}

	j.mtx.Lock()
	defer j.mtx.Unlock()

	prev := j.tip
	next := tr.Sighash(prev)

	record := make([]byte, 0, recordSize)
	record = append(record, prev[:]...)
	record = append(record, serialized...)

	height := make([]byte, 8)
	binary.LittleEndian.PutUint64(height, j.height+1)

	tx, err := j.db.Transaction()
	if err != nil {
		return chainhash.Hash{}, err
	}
	defer tx.Discard()

	if err := tx.Put(stateKey(next), record); err != nil {
		return chainhash.Hash{}, err
	}
	if err := tx.Put(tipKey, next[:]); err != nil {
		return chainhash.Hash{}, err
	}
	if err := tx.Put(heightKey, height); err != nil {
		return chainhash.Hash{}, err
	}
	if err := tx.Commit(); err != nil {
		return chainhash.Hash{}, fmt.Errorf("commit state %v: %w", next,
			err)
	}

	j.tip = next
	j.height++
	j.known.Add(next)

	log.Debugf("Applied %v: state %v -> %v (height %d)", tr, prev, next,
		j.height)

	return next, nil
}

// Fetch returns the transfer that produced state and the state it was
// applied to.
func (j *Journal) Fetch(state chainhash.Hash) (entry.Transfer, chainhash.Hash, error) {
	snap, err := j.db.Snapshot()
	if err != nil {
		return entry.Transfer{}, chainhash.Hash{}, err
	}
	defer snap.Release()

	return fetch(snap, state)
}

// fetch reads and decodes the record of state from snap.
func fetch(snap engine.Snapshot, state chainhash.Hash) (entry.Transfer, chainhash.Hash, error) {
	record, err := snap.Get(stateKey(state))
	if errors.Is(err, engine.ErrNotFound) {
		return entry.Transfer{}, chainhash.Hash{},
			fmt.Errorf("%w: %v", ErrStateNotFound, state)
	}
	if err != nil {
		return entry.Transfer{}, chainhash.Hash{}, err
	}

	if len(record) != recordSize {
		return entry.Transfer{}, chainhash.Hash{},
			fmt.Errorf("%w: state %v record is %d bytes",
				ErrCorruptRecord, state, len(record))
	}

	prev := hashFromBytes(record[:chainhash.HashSize])
	tr, err := entry.FromBytes(record[chainhash.HashSize:])
	if err != nil {
		return entry.Transfer{}, chainhash.Hash{},
			fmt.Errorf("%w: state %v: %v", ErrCorruptRecord, state,
				err)
	}

	return tr, *prev, nil
}

// HasState reports whether state is the genesis state or was produced by an
// applied transfer.
func (j *Journal) HasState(state chainhash.Hash) (bool, error) {
	if state == j.genesis || j.known.Contains(state) {
		return true, nil
	}

	snap, err := j.db.Snapshot()
	if err != nil {
		return false, err
	}
	defer snap.Release()

	has, err := snap.Has(stateKey(state))
	if err != nil {
		return false, err
	}
	if has {
		j.known.Add(state)
	}
	return has, nil
}

// WalkFunc is called for every applied transfer with the state it produced
// and the state it was applied to.  Returning an error stops the walk and the
// error is returned by Walk.
type WalkFunc func(state chainhash.Hash, tr entry.Transfer,
	prev chainhash.Hash) error

// Walk calls fn for every applied transfer from the tip back to genesis.
func (j *Journal) Walk(fn WalkFunc) error {
	tip, _ := j.Tip()

	snap, err := j.db.Snapshot()
	if err != nil {
		return err
	}
	defer snap.Release()

	for state := tip; state != j.genesis; {
		tr, prev, err := fetch(snap, state)
		if err != nil {
			return err
		}
		if err := fn(state, tr, prev); err != nil {
			return err
		}
		state = prev
	}
	return nil
}

// RecordCount returns the number of state records stored in the journal.
func (j *Journal) RecordCount() (uint64, error) {
	snap, err := j.db.Snapshot()
	if err != nil {
		return 0, err
	}
	defer snap.Release()

	return countRecords(snap)
}

// countRecords iterates the state record key space of snap.
func countRecords(snap engine.Snapshot) (uint64, error) {
	iter := snap.NewIterator(engine.BytesPrefix(statePrefix))
	defer iter.Release()

	var count uint64
	for iter.Next() {
		count++
	}
	return count, iter.Error()
}

// Verify recomputes every link of the chain and returns ErrChainBroken when a
// stored transfer does not hash to its state, or when records exist that the
// chain from the tip does not reach.
func (j *Journal) Verify() error {
	stored, err := j.RecordCount()
	if err != nil {
		return err
	}

	var count uint64
	err = j.Walk(func(state chainhash.Hash, tr entry.Transfer,
		prev chainhash.Hash) error {

		if got := tr.Sighash(prev); got != state {
			return fmt.Errorf("%w: state %v recomputes to %v",
				ErrChainBroken, state, got)
		}
		count++
		return nil
	})
	if err != nil {
		return err
	}
	if count != stored {
		return fmt.Errorf("%w: %d records stored, %d reachable from the "+
			"tip", ErrChainBroken, stored, count)
	}

	log.Debugf("Verified %d state transitions", count)
	return nil
}
