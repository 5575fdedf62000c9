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

// CSVUnit is the unit a relative timelock is expressed in.  All units are
// converted to a block count assuming the ten minute block target.
type CSVUnit uint8

const (
	// CSVBlocks expresses the delay directly in blocks.
	CSVBlocks CSVUnit = iota

	// CSVHours expresses the delay in hours of 6 blocks.
	CSVHours

	// CSVDays expresses the delay in days of 144 blocks.
	CSVDays

	// CSVWeeks expresses the delay in weeks of 1008 blocks.
	CSVWeeks
)

// blocksPerUnit maps every unit to the number of blocks it spans.
var blocksPerUnit = map[CSVUnit]uint64{
	CSVBlocks: 1,
	CSVHours:  6,
	CSVDays:   144,
	CSVWeeks:  1008,
}

// String returns the unit name.
func (u CSVUnit) String() string {
	switch u {
	case CSVBlocks:
		return "blocks"
	case CSVHours:
		return "hours"
	case CSVDays:
		return "days"
	case CSVWeeks:
		return "weeks"
	}
	return fmt.Sprintf("unknown(%d)", uint8(u))
}

// MaxCSVBlocks is the largest block count a block based relative lock can
// carry in the 16 bit sequence lock field.
const MaxCSVBlocks = math.MaxUint16

// CSVDelay is a relative timelock enforced with OP_CHECKSEQUENCEVERIFY.
type CSVDelay struct {
	Unit  CSVUnit
	Count uint32
}

// NewCSVDays returns a delay of the given number of days.
func NewCSVDays(days uint32) CSVDelay {
	return CSVDelay{Unit: CSVDays, Count: days}
}

// NewCSVBlocks returns a delay of the given number of blocks.
func NewCSVBlocks(blocks uint32) CSVDelay {
	return CSVDelay{Unit: CSVBlocks, Count: blocks}
}

// Blocks returns the delay converted to blocks.
func (d CSVDelay) Blocks() (uint32, error) {
	perUnit, ok := blocksPerUnit[d.Unit]
	if !ok {
		str := fmt.Sprintf("unknown csv unit %v", d.Unit)
		return 0, scriptError(ErrCSVOutOfRange, str)
	}

	blocks := uint64(d.Count) * perUnit
	if blocks > MaxCSVBlocks {
		str := fmt.Sprintf("csv delay of %d %v is %d blocks, max is %d",
			d.Count, d.Unit, blocks, MaxCSVBlocks)
		return 0, scriptError(ErrCSVOutOfRange, str)
	}

	return uint32(blocks), nil
}

// Sequence returns the input sequence number that satisfies the delay.  Block
// based locks leave the type flag and the disable flag unset, so the sequence
// is the block count itself.
func (d CSVDelay) Sequence() (uint32, error) {
	return d.Blocks()
}

// SequenceBytes returns the sequence number serialized little-endian, as it
// appears in a transaction input.
func (d CSVDelay) SequenceBytes() ([]byte, error) {
	seq, err := d.Sequence()
	if err != nil {
		return nil, err
	}

	return binary.LittleEndian.AppendUint32(nil, seq), nil
}

// Script returns the script fragment enforcing the delay:
//
//	<blocks> OP_CHECKSEQUENCEVERIFY OP_DROP
//
// The block count is pushed as a minimally encoded script number.
func (d CSVDelay) Script() ([]byte, error) {
	blocks, err := d.Blocks()
	if err != nil {
		return nil, err
	}

	push, err := WithPrefixPushData(scriptNum(blocks).Bytes())
	if err != nil {
		return nil, err
	}

	log.Tracef("CSV script for %d %v: %d blocks", d.Count, d.Unit, blocks)

	script := make([]byte, 0, len(push)+2)
	script = append(script, push...)
	return append(script, btcscript.OP_CHECKSEQUENCEVERIFY,
		btcscript.OP_DROP), nil
}
