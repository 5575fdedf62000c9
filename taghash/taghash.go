// Copyright (c) 2015 The Decred developers
// Copyright (c) 2016-2017 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package taghash

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Tag identifies the purpose a tagged hash is computed for.  Every purpose in
// the protocol owns exactly one tag.
type Tag uint8

const (
	// TagTapLeaf commits to a single tapscript leaf.
	TagTapLeaf Tag = iota

	// TagTapBranch commits to an ordered pair of child node hashes.
	TagTapBranch

	// TagTapTweak commits an internal key to the root of its script tree.
	TagTapTweak

	// TagSighashTransfer binds a transfer to the state it is applied to.
	TagSighashTransfer

	// numTags is the number of defined tags.  It MUST be the last entry.
	numTags
)

// tagStrings maps each tag to the ASCII domain string that is hashed into the
// tag prefix.
var tagStrings = [numTags]string{
	TagTapLeaf:         "TapLeaf",
	TagTapBranch:       "TapBranch",
	TagTapTweak:        "TapTweak",
	TagSighashTransfer: "Sighash/Transfer",
}

// String returns the domain string of the tag.
func (t Tag) String() string {
	if t < numTags {
		return tagStrings[t]
	}
	return fmt.Sprintf("Unknown/%d", uint8(t))
}

// Sum computes the tagged hash of the concatenation of msgs:
//
//	SHA256(SHA256(tag) || SHA256(tag) || msgs[0] || ... || msgs[n])
func Sum(tag Tag, msgs ...[]byte) chainhash.Hash {
	return *chainhash.TaggedHash([]byte(tag.String()), msgs...)
}
