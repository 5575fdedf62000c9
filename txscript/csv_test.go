// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"testing"

	btcscript "github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

// TestCSVDays checks day based delays against known sequences and scripts.
func TestCSVDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days     uint32
		sequence string
		script   string
	}{
		{1, "90000000", "029000b275"},
		{2, "20010000", "022001b275"},
		{3, "b0010000", "02b001b275"},
		{4, "40020000", "024002b275"},
		{5, "d0020000", "02d002b275"},
		{10, "a0050000", "02a005b275"},
		{55, "f01e0000", "02f01eb275"},
		{100, "40380000", "024038b275"},
		{200, "80700000", "028070b275"},
		{220, "c07b0000", "02c07bb275"},
		{230, "60810000", "03608100b275"},
		{240, "00870000", "03008700b275"},
		{254, "e08e0000", "03e08e00b275"},
		{255, "708f0000", "03708f00b275"},
	}

	for _, test := range tests {
		delay := NewCSVDays(test.days)

		seq, err := delay.SequenceBytes()
		require.NoError(t, err)
		require.Equal(t, hexToBytes(test.sequence), seq,
			"sequence for %d days", test.days)

		script, err := delay.Script()
		require.NoError(t, err)
		require.Equal(t, hexToBytes(test.script), script,
			"script for %d days", test.days)
	}
}

// TestCSVScriptMatchesScriptBuilder ensures the delay script is the one the
// btcd script builder emits for the same block count.
func TestCSVScriptMatchesScriptBuilder(t *testing.T) {
	t.Parallel()

	for _, blocks := range []uint32{0, 1, 16, 17, 127, 128, 144, 1008, 32767,
		32768, MaxCSVBlocks} {

		want, err := btcscript.NewScriptBuilder().
			AddInt64(int64(blocks)).
			AddOp(btcscript.OP_CHECKSEQUENCEVERIFY).
			AddOp(btcscript.OP_DROP).
			Script()
		require.NoError(t, err)

		got, err := NewCSVBlocks(blocks).Script()
		require.NoError(t, err)
		require.Equal(t, want, got, "blocks %d", blocks)
	}
}

// TestCSVUnits checks unit conversion and the block range limit.
func TestCSVUnits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		delay  CSVDelay
		blocks uint32
		err    bool
	}{
		{CSVDelay{Unit: CSVBlocks, Count: 10}, 10, false},
		{CSVDelay{Unit: CSVHours, Count: 10}, 60, false},
		{CSVDelay{Unit: CSVDays, Count: 10}, 1440, false},
		{CSVDelay{Unit: CSVWeeks, Count: 10}, 10080, false},
		{CSVDelay{Unit: CSVWeeks, Count: 65}, 65520, false},
		{CSVDelay{Unit: CSVDays, Count: 455}, 65520, false},
		{CSVDelay{Unit: CSVBlocks, Count: MaxCSVBlocks}, MaxCSVBlocks, false},
		{CSVDelay{Unit: CSVBlocks, Count: MaxCSVBlocks + 1}, 0, true},
		{CSVDelay{Unit: CSVDays, Count: 456}, 0, true},
		{CSVDelay{Unit: CSVWeeks, Count: 0xffffffff}, 0, true},
		{CSVDelay{Unit: CSVUnit(9), Count: 1}, 0, true},
	}

	for i, test := range tests {
		blocks, err := test.delay.Blocks()
		if test.err {
			require.True(t, IsErrorCode(err, ErrCSVOutOfRange),
				"test #%d: %v", i, err)

			_, err = test.delay.Script()
			require.True(t, IsErrorCode(err, ErrCSVOutOfRange))

			_, err = test.delay.SequenceBytes()
			require.True(t, IsErrorCode(err, ErrCSVOutOfRange))
			continue
		}

		require.NoError(t, err, "test #%d", i)
		require.Equal(t, test.blocks, blocks, "test #%d", i)

		seq, err := test.delay.Sequence()
		require.NoError(t, err)
		require.Equal(t, blocks, seq)
	}
}

// TestCSVUnitStringer tests the stringized output of CSVUnit.
func TestCSVUnitStringer(t *testing.T) {
	t.Parallel()

	require.Equal(t, "blocks", CSVBlocks.String())
	require.Equal(t, "hours", CSVHours.String())
	require.Equal(t, "days", CSVDays.String())
	require.Equal(t, "weeks", CSVWeeks.String())
	require.Equal(t, "unknown(7)", CSVUnit(7).String())
}
