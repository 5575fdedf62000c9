// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package valtype

import (
	"fmt"

	"github.com/bitcoinvm/bvm/cpe"
)

// shortValWidthBits is the number of bits used to select the byte width of a
// ShortVal.
const shortValWidthBits = 2

// ShortVal is an unsigned 32 bit value encoded with as few bytes as needed.
type ShortVal uint32

// NewShortVal returns v as a ShortVal.
func NewShortVal(v uint32) ShortVal {
	return ShortVal(v)
}

// Value returns the underlying integer.
func (s ShortVal) Value() uint32 {
	return uint32(s)
}

// width returns the minimal number of bytes needed to hold the value.  Zero
// still takes one byte.
func (s ShortVal) width() int {
	switch {
	case s <= 0xff:
		return 1
	case s <= 0xffff:
		return 2
	case s <= 0xffffff:
		return 3
	default:
		return 4
	}
}

// CPE encodes the value as a 2 bit width selector holding width-1 followed by
// width bytes, most significant byte first.
func (s ShortVal) CPE() *cpe.BitVector {
	w := s.width()

	v := cpe.NewBitVector(shortValWidthBits + 8*w)
	v.PushUint(uint64(w-1), shortValWidthBits)
	v.PushUint(uint64(s), 8*w)
	return v
}

// ReadShortVal decodes a ShortVal written by CPE.
func ReadShortVal(r *cpe.Reader) (ShortVal, error) {
	sel, err := r.ReadUint(shortValWidthBits)
	if err != nil {
		return 0, fmt.Errorf("short val width: %w", err)
	}

	val, err := r.ReadUint(8 * (int(sel) + 1))
	if err != nil {
		return 0, fmt.Errorf("short val body: %w", err)
	}
	return ShortVal(val), nil
}

// String returns the value in decimal.
func (s ShortVal) String() string {
	return fmt.Sprintf("%d", uint32(s))
}
