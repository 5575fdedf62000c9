// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"io"
	"testing"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// TestCompactSizeBoundaries ensures the prefix changes width exactly at the
// tier thresholds and that every prefix parses back to its value.
func TestCompactSizeBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    uint64
		want []byte
	}{
		{0, hexToBytes("00")},
		{1, hexToBytes("01")},
		{252, hexToBytes("fc")},
		{253, hexToBytes("fdfd00")},
		{254, hexToBytes("fdfe00")},
		{0x1234, hexToBytes("fd3412")},
		{65535, hexToBytes("fdffff")},
		{65536, hexToBytes("fe00000100")},
		{0xffffffff, hexToBytes("feffffffff")},
		{1 << 32, hexToBytes("ff0000000001000000")},
		{0xffffffffffffffff, hexToBytes("ffffffffffffffffff")},
	}

	for _, test := range tests {
		got := CompactSizePrefix(test.n)
		require.Equal(t, test.want, got, "n=%d", test.n)
		require.LessOrEqual(t, len(got), btcwire.MaxVarIntPayload)

		n, err := ReadCompactSize(bytes.NewReader(got))
		require.NoError(t, err)
		require.Equal(t, test.n, n)
	}
}

// TestWithPrefixCompactSize checks the prefix is prepended to the payload.
func TestWithPrefixCompactSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		data       []byte
		wantPrefix []byte
	}{
		{nil, hexToBytes("00")},
		{hexToBytes("aabb"), hexToBytes("02")},
		{bytes.Repeat([]byte{0xaa}, 252), hexToBytes("fc")},
		{bytes.Repeat([]byte{0xaa}, 253), hexToBytes("fdfd00")},
		{bytes.Repeat([]byte{0xaa}, 65535), hexToBytes("fdffff")},
		{bytes.Repeat([]byte{0xaa}, 65536), hexToBytes("fe00000100")},
	}

	for _, test := range tests {
		got := WithPrefixCompactSize(test.data)
		require.Equal(
			t, test.wantPrefix, got[:len(test.wantPrefix)],
			"len=%d", len(test.data),
		)
		require.Equal(t, len(test.wantPrefix)+len(test.data), len(got))

		payload, rest, err := SplitCompactSize(got)
		require.NoError(t, err)
		require.Len(t, rest, 0)
		require.Equal(t, len(test.data), len(payload))
		require.True(t, bytes.Equal(test.data, payload))
	}
}

// TestSplitCompactSizeTrailing ensures bytes after the payload are returned
// untouched.
func TestSplitCompactSizeTrailing(t *testing.T) {
	t.Parallel()

	payload, rest, err := SplitCompactSize(hexToBytes("02aabbccdd"))
	require.NoError(t, err)
	require.Equal(t, hexToBytes("aabb"), payload)
	require.Equal(t, hexToBytes("ccdd"), rest)
}

// TestSplitCompactSizeErrors exercises truncated and non-canonical input.
func TestSplitCompactSizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short payload", hexToBytes("03aabb")},
		{"truncated prefix", hexToBytes("fd01")},
		{"non-canonical fd", hexToBytes("fd0100")},
		{"non-canonical fe", hexToBytes("fe01000000")},
	}

	for _, test := range tests {
		_, _, err := SplitCompactSize(test.in)
		require.Error(t, err, test.name)
	}

	_, _, err := SplitCompactSize(hexToBytes("03aabb"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
