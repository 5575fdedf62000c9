// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript builds the script fragments and taproot commitments used by
bvm outputs.

Push Data

WithPrefixPushData encodes a byte string the way a script pushes it onto the
stack.  Single bytes in the range [0, 16] use the dedicated small integer
opcodes, everything else is prefixed by its length using the direct,
OP_PUSHDATA1, OP_PUSHDATA2 or OP_PUSHDATA4 forms.

Relative Timelocks

CSVDelay converts a delay expressed in blocks, hours, days or weeks into the
sequence number and the <n> OP_CHECKSEQUENCEVERIFY OP_DROP fragment that
enforce it.

Taproot

A script tree is built from TapLeaf values joined by NewTapBranch, or all at
once with AssembleTapTree.  Children of a branch are ordered by hash, so the
root hash only depends on the set of leaves at every level.  TapRoot commits an
internal key to a tree and derives the tweaked output key, the witness v1
output script and the control blocks that reveal individual leaves.

Errors

Errors returned by this package are of type txscript.Error.  Use IsErrorCode to
test for a specific ErrorCode.
*/
package txscript
