// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package taghash

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// manualTaggedHash is the textbook construction the package must match.
func manualTaggedHash(tag string, data []byte) chainhash.Hash {
	tagHash := sha256.Sum256([]byte(tag))

	preimage := make([]byte, 0, 64+len(data))
	preimage = append(preimage, tagHash[:]...)
	preimage = append(preimage, tagHash[:]...)
	preimage = append(preimage, data...)

	return chainhash.Hash(sha256.Sum256(preimage))
}

// TestTagStrings ensures every tag maps to its domain string.
func TestTagStrings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  Tag
		want string
	}{
		{TagTapLeaf, "TapLeaf"},
		{TagTapBranch, "TapBranch"},
		{TagTapTweak, "TapTweak"},
		{TagSighashTransfer, "Sighash/Transfer"},
		{Tag(200), "Unknown/200"},
	}

	for _, test := range tests {
		require.Equal(t, test.want, test.tag.String())
	}
}

// TestSumKnownAnswers checks Sum against the standard construction and
// against btcd's chainhash implementation for the BIP 341 tags.
func TestSumKnownAnswers(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		nil,
		{0x00},
		[]byte("bitcoinvm"),
		make([]byte, 100),
	}

	for tag := Tag(0); tag < numTags; tag++ {
		for i, data := range inputs {
			got := Sum(tag, data)
			require.Equal(
				t, manualTaggedHash(tag.String(), data), got,
				"tag %v input #%d", tag, i,
			)

			lib := chainhash.TaggedHash([]byte(tag.String()), data)
			require.Equal(t, *lib, got, "tag %v input #%d", tag, i)
		}
	}
}

// TestSumSplitMessages ensures that splitting the message across several
// arguments hashes the concatenation.
func TestSumSplitMessages(t *testing.T) {
	t.Parallel()

	whole := Sum(TagTapBranch, []byte("leftright"))
	split := Sum(TagTapBranch, []byte("left"), []byte("right"))
	require.Equal(t, whole, split)
}

// TestDomainSeparation samples inputs and makes sure no two tags agree on
// the same data.
func TestDomainSeparation(t *testing.T) {
	t.Parallel()

	for i := 0; i < 64; i++ {
		data := []byte(fmt.Sprintf("sample-%d", i))

		seen := make(map[chainhash.Hash]Tag)
		for tag := Tag(0); tag < numTags; tag++ {
			digest := Sum(tag, data)
			prev, ok := seen[digest]
			require.False(
				t, ok, "tags %v and %v collide on %q", prev,
				tag, data,
			)
			seen[digest] = tag
		}

		require.NotEqual(t, chainhash.HashH(data), Sum(TagTapLeaf, data))
	}
}

// TestUnknownTag ensures tags outside the table still produce a well defined
// digest.
func TestUnknownTag(t *testing.T) {
	t.Parallel()

	data := []byte{0xde, 0xad}
	require.Equal(
		t, manualTaggedHash("Unknown/42", data), Sum(Tag(42), data),
	)
}
