// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cpe

import (
	"errors"
	"fmt"

	"github.com/kkdai/bstream"
)

// ErrBitsExhausted is returned when a read needs more bits than remain.
var ErrBitsExhausted = errors.New("cpe: bits exhausted")

// Reader consumes a bit vector from the front.
type Reader struct {
	bits *bstream.BStream

	// remaining excludes the zero padding of the final byte.
	remaining int
}

// NewReader returns a reader positioned at the first bit of v.
func NewReader(v *BitVector) *Reader {
	return &Reader{
		bits:      bstream.NewBStreamReader(v.Bytes()),
		remaining: v.Len(),
	}
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.remaining
}

// ReadBit consumes a single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.remaining < 1 {
		return false, ErrBitsExhausted
	}
	bit, err := r.bits.ReadBit()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrBitsExhausted, err)
	}
	r.remaining--
	return bool(bit), nil
}

// ReadUint consumes width bits and returns them as an unsigned integer, most
// significant bit first.
func (r *Reader) ReadUint(width int) (uint64, error) {
	if width < 0 || width > 64 {
		return 0, fmt.Errorf("cpe: invalid width %d", width)
	}
	if r.remaining < width {
		return 0, fmt.Errorf("read %d bits with %d left: %w", width,
			r.remaining, ErrBitsExhausted)
	}

	val, err := r.bits.ReadBits(width)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBitsExhausted, err)
	}
	r.remaining -= width
	return val, nil
}

// ReadBytes consumes n whole bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.remaining < 8*n {
		return nil, fmt.Errorf("read %d bytes with %d bits left: %w", n,
			r.remaining, ErrBitsExhausted)
	}

	out := make([]byte, n)
	for i := range out {
		c, err := r.ReadUint(8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(c)
	}
	return out, nil
}
