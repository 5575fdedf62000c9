// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entry

import (
	"github.com/bitcoinvm/bvm/cpe"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Serializer is implemented by entries with a fixed byte serialization.
type Serializer interface {
	// Serialize returns the canonical byte encoding of the entry.
	Serialize() []byte
}

// Sighasher is implemented by entries that can be bound to the state they
// are applied on top of.
type Sighasher interface {
	// Sighash returns the digest committing to the entry and the hash of
	// the previous state.
	Sighash(prev chainhash.Hash) chainhash.Hash
}

// Entry is the full contract shared by every kind of operation.
type Entry interface {
	cpe.Encoder
	Serializer
	Sighasher
}
