// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// compactSizePver is the protocol version handed to the btcd varint codec.
// CompactSize encoding does not vary with the protocol version.
const compactSizePver = 0

// CompactSizePrefix returns the CompactSize encoding of n:
//
//	n <= 252          n
//	n <= 0xffff       0xfd || uint16 LE
//	n <= 0xffffffff   0xfe || uint32 LE
//	otherwise         0xff || uint64 LE
func CompactSizePrefix(n uint64) []byte {
	var buf bytes.Buffer
	buf.Grow(btcwire.VarIntSerializeSize(n))

	// Writes to a bytes.Buffer cannot fail.
	_ = btcwire.WriteVarInt(&buf, compactSizePver, n)
	return buf.Bytes()
}

// WithPrefixCompactSize returns data preceded by its CompactSize encoded
// length.
func WithPrefixCompactSize(data []byte) []byte {
	prefix := CompactSizePrefix(uint64(len(data)))

	out := make([]byte, 0, len(prefix)+len(data))
	out = append(out, prefix...)
	return append(out, data...)
}

// ReadCompactSize reads a CompactSize value from r.  Encodings that are not
// minimal for the value they carry are rejected.
func ReadCompactSize(r io.Reader) (uint64, error) {
	n, err := btcwire.ReadVarInt(r, compactSizePver)
	if err != nil {
		return 0, fmt.Errorf("read compact size: %w", err)
	}
	return n, nil
}

// SplitCompactSize parses a CompactSize prefixed payload from the front of b
// and returns the payload along with any bytes that follow it.
func SplitCompactSize(b []byte) ([]byte, []byte, error) {
	r := bytes.NewReader(b)
	n, err := ReadCompactSize(r)
	if err != nil {
		return nil, nil, err
	}

	remaining := uint64(r.Len())
	if n > remaining {
		return nil, nil, fmt.Errorf("compact size payload of %d bytes "+
			"exceeds the %d bytes available: %w", n, remaining,
			io.ErrUnexpectedEOF)
	}

	start := len(b) - r.Len()
	end := start + int(n)
	return b[start:end], b[end:], nil
}
