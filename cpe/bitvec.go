// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpe

import (
	"strings"
)

// BitVector is an append-only sequence of bits.  Bits are packed most
// significant bit first, so the first pushed bit becomes the high bit of the
// first byte returned by Bytes.
//
// The zero value is an empty vector ready for use.
type BitVector struct {
	buf []byte
	n   int
}

// NewBitVector returns an empty vector with room for sizeHint bits.
func NewBitVector(sizeHint int) *BitVector {
	return &BitVector{buf: make([]byte, 0, (sizeHint+7)/8)}
}

// Len returns the number of bits in the vector.
func (v *BitVector) Len() int {
	return v.n
}

// Push appends a single bit.
func (v *BitVector) Push(bit bool) {
	if v.n%8 == 0 {
		v.buf = append(v.buf, 0)
	}
	if bit {
		v.buf[v.n/8] |= 0x80 >> uint(v.n%8)
	}
	v.n++
}

// PushUint appends the low width bits of val, most significant bit first.
// Width must be in the range [0, 64].
func (v *BitVector) PushUint(val uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		v.Push(val>>uint(i)&1 == 1)
	}
}

// PushBytes appends every bit of b, most significant bit first.
func (v *BitVector) PushBytes(b []byte) {
	if v.n%8 == 0 {
		v.buf = append(v.buf, b...)
		v.n += 8 * len(b)
		return
	}
	for _, c := range b {
		v.PushUint(uint64(c), 8)
	}
}

// Extend appends all bits of other.
func (v *BitVector) Extend(other *BitVector) {
	for i := 0; i < other.n; i++ {
		v.Push(other.Bit(i))
	}
}

// Bit returns the bit at position i.  It panics if i is out of range, like an
// out of range slice index.
func (v *BitVector) Bit(i int) bool {
	if i < 0 || i >= v.n {
		panic("cpe: bit index out of range")
	}
	return v.buf[i/8]&(0x80>>uint(i%8)) != 0
}

// Bytes returns the packed bits.  The final byte is padded with zero bits
// when the length is not a multiple of eight.
func (v *BitVector) Bytes() []byte {
	out := make([]byte, len(v.buf))
	copy(out, v.buf)
	return out
}

// String returns the bits as a string of '0' and '1' characters.
func (v *BitVector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Encoder is implemented by values with a compact payload encoding.
type Encoder interface {
	// CPE returns the compact payload encoding of the value.
	CPE() *BitVector
}
