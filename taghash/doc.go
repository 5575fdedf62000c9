// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package taghash provides the domain separated hash primitive used for every
commitment in the protocol.

A tagged hash is SHA256(SHA256(tag) || SHA256(tag) || data).  Doubling the tag
digest fills a full SHA-256 block, so each tag yields an independent hash
family while sharing the compression function.  Taproot leaves, branches and
key tweaks use the standard BIP 340 tags; protocol operations use their own
"Sighash/<Operation>" tags.
*/
package taghash
