// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package valtype

import (
	"fmt"

	"github.com/bitcoinvm/bvm/cpe"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// XOnlyKeyLen is the length of a serialized x-only public key.
const XOnlyKeyLen = schnorr.PubKeyBytesLen

// Account is a participant identified by an x-only public key.  Accounts that
// are registered also carry the index assigned to them by the registry, which
// replaces the key in compact encodings.
type Account struct {
	key        *btcec.PublicKey
	index      uint32
	registered bool
}

// NewAccount returns an unregistered account for key.  Only the x coordinate
// of the key is kept, so the stored key always has an even y coordinate.
func NewAccount(key *btcec.PublicKey) Account {
	xOnly, _ := schnorr.ParsePubKey(schnorr.SerializePubKey(key))
	return Account{key: xOnly}
}

// ParseAccount returns an unregistered account from a 32 byte x-only key.
func ParseAccount(xOnly []byte) (Account, error) {
	key, err := schnorr.ParsePubKey(xOnly)
	if err != nil {
		return Account{}, fmt.Errorf("parse account key: %w", err)
	}
	return Account{key: key}, nil
}

// Key returns the account key.
func (a Account) Key() *btcec.PublicKey {
	return a.key
}

// XOnly returns the 32 byte x-only serialization of the account key.
func (a Account) XOnly() [XOnlyKeyLen]byte {
	var xOnly [XOnlyKeyLen]byte
	if a.key != nil {
		copy(xOnly[:], schnorr.SerializePubKey(a.key))
	}
	return xOnly
}

// SetAccountIndex marks the account as registered under index.
func (a *Account) SetAccountIndex(index uint32) {
	a.index = index
	a.registered = true
}

// AccountIndex returns the registry index and whether the account is
// registered.
func (a Account) AccountIndex() (uint32, bool) {
	return a.index, a.registered
}

// CPE encodes a registered account as a set bit followed by its index as a
// ShortVal, and an unregistered one as a clear bit followed by the 256 bits
// of its x-only key.
func (a Account) CPE() *cpe.BitVector {
	if a.registered {
		index := ShortVal(a.index).CPE()

		v := cpe.NewBitVector(1 + index.Len())
		v.Push(true)
		v.Extend(index)
		return v
	}

	xOnly := a.XOnly()

	v := cpe.NewBitVector(1 + 8*XOnlyKeyLen)
	v.Push(false)
	v.PushBytes(xOnly[:])
	return v
}

// String returns the hex x-only key, followed by the registry index when the
// account is registered.
func (a Account) String() string {
	xOnly := a.XOnly()
	if a.registered {
		return fmt.Sprintf("%x#%d", xOnly[:], a.index)
	}
	return fmt.Sprintf("%x", xOnly[:])
}
