// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package valtype

import (
	"github.com/bitcoinvm/bvm/cpe"
)

// commonIndexBits is the width of a common value index.
const commonIndexBits = 8

// MaybeCommon wraps a value that may also be present in the common value
// table.  A common value is encoded by its one byte table index instead of
// the value itself.
type MaybeCommon[T cpe.Encoder] struct {
	value  T
	index  byte
	common bool
}

// Uncommon wraps a value that is not in the common value table.
func Uncommon[T cpe.Encoder](v T) MaybeCommon[T] {
	return MaybeCommon[T]{value: v}
}

// Common wraps a value stored at index in the common value table.
func Common[T cpe.Encoder](v T, index byte) MaybeCommon[T] {
	return MaybeCommon[T]{value: v, index: index, common: true}
}

// Value returns the wrapped value.  It is available for common values too.
func (m MaybeCommon[T]) Value() T {
	return m.value
}

// CommonIndex returns the table index and whether the value is common.
func (m MaybeCommon[T]) CommonIndex() (byte, bool) {
	return m.index, m.common
}

// WithCommonIndex returns a copy of m marked common under index.
func (m MaybeCommon[T]) WithCommonIndex(index byte) MaybeCommon[T] {
	return Common(m.value, index)
}

// WithValue returns a copy of m wrapping v instead, keeping any common index.
func (m MaybeCommon[T]) WithValue(v T) MaybeCommon[T] {
	m.value = v
	return m
}

// CPE encodes an uncommon value as a clear bit followed by the value's own
// encoding, and a common value as a set bit followed by its 8 bit index.
func (m MaybeCommon[T]) CPE() *cpe.BitVector {
	if m.common {
		v := cpe.NewBitVector(1 + commonIndexBits)
		v.Push(true)
		v.PushUint(uint64(m.index), commonIndexBits)
		return v
	}

	inner := m.value.CPE()

	v := cpe.NewBitVector(1 + inner.Len())
	v.Push(false)
	v.Extend(inner)
	return v
}
