// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package entry

import (
	"encoding/binary"
	"fmt"

	"github.com/bitcoinvm/bvm/cpe"
	"github.com/bitcoinvm/bvm/taghash"
	"github.com/bitcoinvm/bvm/valtype"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// amountLen is the length of the serialized amount.
	amountLen = 4

	// TransferSerializeSize is the length of a serialized transfer: the
	// sender key, the receiver key and the amount.
	TransferSerializeSize = 2*valtype.XOnlyKeyLen + amountLen
)

// Transfer moves an amount from one account to another.
type Transfer struct {
	from   valtype.Account
	to     valtype.MaybeCommon[valtype.Account]
	amount valtype.MaybeCommon[valtype.ShortVal]
}

// Ensure Transfer implements the Entry interface.
var _ Entry = Transfer{}

// NewTransfer returns a transfer whose receiver and amount may be common
// values.
func NewTransfer(from valtype.Account,
	to valtype.MaybeCommon[valtype.Account],
	amount valtype.MaybeCommon[valtype.ShortVal]) Transfer {

	return Transfer{from: from, to: to, amount: amount}
}

// NewUncommonTransfer returns a transfer with neither a common receiver nor a
// common amount.
func NewUncommonTransfer(from, to valtype.Account,
	amount valtype.ShortVal) Transfer {

	return Transfer{
		from:   from,
		to:     valtype.Uncommon(to),
		amount: valtype.Uncommon(amount),
	}
}

// From returns the sending account.
func (t Transfer) From() valtype.Account {
	return t.from
}

// To returns the receiving account.
func (t Transfer) To() valtype.MaybeCommon[valtype.Account] {
	return t.to
}

// Amount returns the transferred amount.
func (t Transfer) Amount() valtype.MaybeCommon[valtype.ShortVal] {
	return t.amount
}

// SetFromAccountIndex records the registry index of the sender.
func (t *Transfer) SetFromAccountIndex(index uint32) {
	t.from.SetAccountIndex(index)
}

// SetToAccountIndex records the registry index of the receiver.  A common
// index on the receiver is kept.
func (t *Transfer) SetToAccountIndex(index uint32) {
	to := t.to.Value()
	to.SetAccountIndex(index)
	t.to = t.to.WithValue(to)
}

// SetToCommonIndex marks the receiver as the common value at index.
func (t *Transfer) SetToCommonIndex(index byte) {
	t.to = t.to.WithCommonIndex(index)
}

// SetAmountCommonIndex marks the amount as the common value at index.
func (t *Transfer) SetAmountCommonIndex(index byte) {
	t.amount = t.amount.WithCommonIndex(index)
}

// CPE encodes the transfer as two clear bits, the first selecting a transfer
// over a call and the second selecting the transfer kind, followed by the
// sender, the receiver and the amount.
func (t Transfer) CPE() *cpe.BitVector {
	from := t.from.CPE()
	to := t.to.CPE()
	amount := t.amount.CPE()

	v := cpe.NewBitVector(2 + from.Len() + to.Len() + amount.Len())

	// Transfer, not a call.
	v.Push(false)

	// Plain transfer.
	v.Push(false)

	v.Extend(from)
	v.Extend(to)
	v.Extend(amount)
	return v
}

// Serialize returns the sender key, the receiver key and the amount as a
// little-endian uint32.  Registry and common indexes are not serialized.
func (t Transfer) Serialize() []byte {
	from := t.from.XOnly()
	to := t.to.Value().XOnly()

	b := make([]byte, 0, TransferSerializeSize)
	b = append(b, from[:]...)
	b = append(b, to[:]...)
	return binary.LittleEndian.AppendUint32(b, t.amount.Value().Value())
}

// FromBytes decodes a transfer written by Serialize.  The input must be
// exactly TransferSerializeSize bytes.
func FromBytes(b []byte) (Transfer, error) {
	if len(b) > TransferSerializeSize {
		str := fmt.Sprintf("transfer is %d bytes, %d bytes past the end",
			len(b), len(b)-TransferSerializeSize)
		return Transfer{}, entryError(ErrTrailingBytes, str, nil)
	}
	return FromBytesPrefix(b)
}

// FromBytesPrefix decodes a transfer from the first TransferSerializeSize
// bytes of b and ignores the rest.
func FromBytesPrefix(b []byte) (Transfer, error) {
	if len(b) < TransferSerializeSize {
		str := fmt.Sprintf("transfer is %d bytes, need %d", len(b),
			TransferSerializeSize)
		return Transfer{}, entryError(ErrTruncatedInput, str, nil)
	}

	const toStart = valtype.XOnlyKeyLen
	const amountStart = toStart + valtype.XOnlyKeyLen

	from, err := valtype.ParseAccount(b[:toStart])
	if err != nil {
		return Transfer{}, entryError(ErrKeyParse, "sender", err)
	}

	to, err := valtype.ParseAccount(b[toStart:amountStart])
	if err != nil {
		return Transfer{}, entryError(ErrKeyParse, "receiver", err)
	}

	amount := binary.LittleEndian.Uint32(b[amountStart:TransferSerializeSize])

	return NewUncommonTransfer(from, to, valtype.NewShortVal(amount)), nil
}

// Sighash returns the tagged hash of the previous state hash followed by the
// serialized transfer.
func (t Transfer) Sighash(prev chainhash.Hash) chainhash.Hash {
	return taghash.Sum(taghash.TagSighashTransfer, prev[:], t.Serialize())
}

// String returns a short human-readable description of the transfer.
func (t Transfer) String() string {
	return fmt.Sprintf("transfer %v -> %v amount %v", t.from,
		t.to.Value(), t.amount.Value())
}
