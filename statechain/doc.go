// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package statechain keeps the journal of transfers applied to the bvm state.

The state is identified by a hash.  Applying a transfer replaces the state
hash with the transfer's sighash over it, so the journal is a hash chain from
a fixed genesis state to the current tip.  Each link is stored under the state
it produced together with the state it was applied to, which lets the chain
be walked back and re-verified at any time.
*/
package statechain
