// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package entry implements the operations applied to the bvm state.

Every entry has two encodings.  The compact payload encoding returned by CPE
is the size optimized form carried on chain, where registered accounts and
common values are replaced by indexes.  Serialize returns the fixed layout the
signature hash commits to, which always holds full keys and amounts.

Sighash binds an entry to the state it is applied on top of, so each applied
entry extends a hash chain of states.
*/
package entry
