// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"
	"math"

	btcscript "github.com/btcsuite/btcd/txscript"
)

const (
	// maxSmallIntPush is the largest single byte value that is pushed
	// with a dedicated small integer opcode.
	maxSmallIntPush = 16

	// maxDirectPushLen is the longest push that is encoded with the data
	// length as the opcode itself (OP_DATA_1 through OP_DATA_75).
	maxDirectPushLen = btcscript.OP_DATA_75
)

// smallIntOpcode returns the opcode that pushes the small integer n, which
// must be in the range [0, 16].
func smallIntOpcode(n byte) byte {
	if n == 0 {
		return btcscript.OP_0
	}
	return btcscript.OP_1 + (n - 1)
}

// pushDataPrefixLen returns the size of the generic push prefix for data of
// the given length.
func pushDataPrefixLen(dataLen uint64) int {
	switch {
	case dataLen <= maxDirectPushLen:
		return 1
	case dataLen <= math.MaxUint8:
		return 2
	case dataLen <= math.MaxUint16:
		return 3
	default:
		return 5
	}
}

// WithPrefixPushData encodes data as a script push.
//
// A single byte in the range [0, 16] is pushed with OP_0 or OP_1 through
// OP_16.  Every other input, including the empty slice and multi-byte slices
// that happen to hold a small value, uses the generic form: the length as the
// opcode for up to 75 bytes, then OP_PUSHDATA1, OP_PUSHDATA2 and OP_PUSHDATA4
// with a little-endian length.  Data longer than math.MaxUint32 bytes returns
// ErrLengthOutOfRange.
func WithPrefixPushData(data []byte) ([]byte, error) {
	if len(data) == 1 && data[0] <= maxSmallIntPush {
		return []byte{smallIntOpcode(data[0])}, nil
	}

	prefix, err := pushDataPrefix(uint64(len(data)))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(prefix)+len(data))
	out = append(out, prefix...)
	return append(out, data...), nil
}

// pushDataPrefix returns the generic push prefix for data of the given
// length.
func pushDataPrefix(dataLen uint64) ([]byte, error) {
	if dataLen > math.MaxUint32 {
		str := fmt.Sprintf("push of %d bytes exceeds the max "+
			"OP_PUSHDATA4 length of %d", dataLen,
			uint64(math.MaxUint32))
		return nil, scriptError(ErrLengthOutOfRange, str)
	}

	prefix := make([]byte, 0, pushDataPrefixLen(dataLen))
	switch {
	case dataLen <= maxDirectPushLen:
		return append(prefix, byte(dataLen)), nil

	case dataLen <= math.MaxUint8:
		return append(prefix, btcscript.OP_PUSHDATA1, byte(dataLen)), nil

	case dataLen <= math.MaxUint16:
		prefix = append(prefix, btcscript.OP_PUSHDATA2)
		return binary.LittleEndian.AppendUint16(prefix, uint16(dataLen)), nil

	default:
		prefix = append(prefix, btcscript.OP_PUSHDATA4)
		return binary.LittleEndian.AppendUint32(prefix, uint32(dataLen)), nil
	}
}
