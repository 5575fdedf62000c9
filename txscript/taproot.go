// Copyright (c) 2013-2022 The btcsuite developers
// Copyright (c) 2024 The bitcoinvm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"fmt"
	"math"

	"github.com/bitcoinvm/bvm/taghash"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcscript "github.com/btcsuite/btcd/txscript"
	secp "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// TapscriptLeafVersion represents the various possible versions of a tapscript
// leaf version. Leaf versions are used to define, or introduce new script
// semantics, under the base taproot execution model.
type TapscriptLeafVersion uint8

const (
	// BaseLeafVersion is the base tapscript leaf version. The semantics of
	// this version are defined in BIP 342.
	BaseLeafVersion TapscriptLeafVersion = 0xc0
)

const (
	// MaxLeafScriptLen is the longest script a leaf can commit to.  The
	// leaf commitment carries the script length in a single byte.
	MaxLeafScriptLen = math.MaxUint8

	// ControlBlockBaseSize is the base size of a control block. This
	// includes the initial byte for the leaf version, and then serialized
	// schnorr public key.
	ControlBlockBaseSize = 33

	// ControlBlockNodeSize is the size of a given merkle branch hash in the
	// control block.
	ControlBlockNodeSize = 32

	// taprootOutputScriptLen is the length of a witness v1 output script:
	// OP_1 OP_DATA_32 <32 byte x-only key>.
	taprootOutputScriptLen = 34
)

// Branch represents an abstract node in a tapscript merkle tree. A node is
// either a leaf or an interior branch with two children.
type Branch interface {
	// TapHash returns the hash of the node. This will either be a tagged
	// hash derived from a branch, or a leaf.
	TapHash() chainhash.Hash

	// Left returns the left node. If this is a leaf node, this is nil.
	Left() Branch

	// Right returns the right node. If this is a leaf node, this is nil.
	Right() Branch
}

// TapLeaf represents a leaf in a tapscript tree. A leaf has two components:
// the leaf version, and the script associated with that leaf version.
type TapLeaf struct {
	// LeafVersion is the leaf version of this leaf.
	LeafVersion TapscriptLeafVersion

	// Script is the script to be validated based on the specified leaf
	// version.
	Script []byte
}

// NewBaseTapLeaf returns a new TapLeaf for the specified script, using the
// current base leaf version (BIP 342).
func NewBaseTapLeaf(script []byte) (TapLeaf, error) {
	return NewTapLeaf(BaseLeafVersion, script)
}

// NewTapLeaf returns a new TapLeaf with the given leaf version and script.
// Scripts longer than MaxLeafScriptLen are rejected since their length cannot
// be committed to.
func NewTapLeaf(leafVersion TapscriptLeafVersion, script []byte) (TapLeaf, error) {
	if err := checkLeafScript(script); err != nil {
		return TapLeaf{}, err
	}

	return TapLeaf{
		LeafVersion: leafVersion,
		Script:      script,
	}, nil
}

// checkLeafScript returns ErrLeafScriptTooLarge when the length of script
// does not fit the single length byte of the leaf commitment.
func checkLeafScript(script []byte) error {
	if len(script) <= MaxLeafScriptLen {
		return nil
	}

	str := fmt.Sprintf("leaf script is %d bytes, max is %d", len(script),
		MaxLeafScriptLen)
	return scriptError(ErrLeafScriptTooLarge, str)
}

// checkTree walks node and checks the script length of every leaf.  Leaves
// built as struct literals bypass NewTapLeaf, so trees are checked again
// before anything commits to them.
func checkTree(node Branch) error {
	left, right := node.Left(), node.Right()
	if left == nil || right == nil {
		if leaf, ok := node.(TapLeaf); ok {
			return checkLeafScript(leaf.Script)
		}
		return nil
	}

	if err := checkTree(left); err != nil {
		return err
	}
	return checkTree(right)
}

// Left is the left node of the leaf. As this is a leaf, the left node is nil.
func (t TapLeaf) Left() Branch {
	return nil
}

// Right is the right node of the leaf. As this is a leaf, the right node is
// nil.
func (t TapLeaf) Right() Branch {
	return nil
}

// TapHash returns the hash digest of the target leaf:
//
//	h_tapleaf(leafVersion || len(script) || script)
//
// where the length is a single byte.
func (t TapLeaf) TapHash() chainhash.Hash {
	header := [2]byte{byte(t.LeafVersion), byte(len(t.Script))}
	return taghash.Sum(taghash.TagTapLeaf, header[:], t.Script)
}

// TapBranch represents an internal branch in the tapscript tree. The left or
// right nodes may either be another branch, leaves, or a combination of both.
type TapBranch struct {
	// leftNode is the child with the lexicographically smaller hash.
	leftNode Branch

	// rightNode is the other child.
	rightNode Branch
}

// NewTapBranch creates a new internal branch from the two passed nodes.  The
// node whose hash sorts first becomes the left child, so the resulting branch
// does not depend on the argument order.
func NewTapBranch(a, b Branch) *TapBranch {
	aHash, bHash := a.TapHash(), b.TapHash()
	if bytes.Compare(aHash[:], bHash[:]) < 0 {
		return &TapBranch{leftNode: a, rightNode: b}
	}

	return &TapBranch{leftNode: b, rightNode: a}
}

// Left is the left node of the branch, this might be a leaf or another
// branch.
func (t *TapBranch) Left() Branch {
	return t.leftNode
}

// Right is the right node of a branch, this might be a leaf or another branch.
func (t *TapBranch) Right() Branch {
	return t.rightNode
}

// TapHash returns the hash digest of the taproot internal branch given a left
// and right node. The final hash digest is: h_tapbranch(leftNode ||
// rightNode), where leftNode is the lexicographically smaller of the two
// nodes.
func (t *TapBranch) TapHash() chainhash.Hash {
	leftHash := t.leftNode.TapHash()
	rightHash := t.rightNode.TapHash()

	return taghash.Sum(taghash.TagTapBranch, leftHash[:], rightHash[:])
}

// AssembleTapTree builds a tree over the passed leaves by pairing adjacent
// nodes level by level.  A node left without a sibling at the end of a level
// is carried up unchanged.
func AssembleTapTree(leaves ...TapLeaf) (Branch, error) {
	if len(leaves) == 0 {
		return nil, scriptError(ErrEmptyTree, "no leaves to assemble")
	}

	level := make([]Branch, 0, len(leaves))
	for _, leaf := range leaves {
		if err := checkLeafScript(leaf.Script); err != nil {
			return nil, err
		}
		level = append(level, leaf)
	}

	for len(level) > 1 {
		next := make([]Branch, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, NewTapBranch(level[i], level[i+1]))
		}
		level = next
	}

	return level[0], nil
}

// inclusionProof returns the sibling hashes on the path from the leaf with the
// target hash up to node, ordered leaf first.
func inclusionProof(node Branch, target chainhash.Hash) ([]byte, bool) {
	left, right := node.Left(), node.Right()
	if left == nil || right == nil {
		return nil, node.TapHash() == target
	}

	if proof, ok := inclusionProof(left, target); ok {
		sibling := right.TapHash()
		return append(proof, sibling[:]...), true
	}
	if proof, ok := inclusionProof(right, target); ok {
		sibling := left.TapHash()
		return append(proof, sibling[:]...), true
	}

	return nil, false
}

// TapRoot commits an internal key to a tapscript tree.  The internal key is
// always stored with an even y coordinate.
type TapRoot struct {
	innerKey *btcec.PublicKey
	tree     Branch
}

// NewTapRoot creates a new root from an internal key and a script tree.  A
// key with an odd y coordinate is replaced by its negation.  A nil key returns
// ErrMissingInternalKey, a nil tree returns ErrEmptyTree and a leaf script
// longer than MaxLeafScriptLen returns ErrLeafScriptTooLarge.
func NewTapRoot(key *btcec.PublicKey, tree Branch) (*TapRoot, error) {
	if key == nil {
		return nil, scriptError(ErrMissingInternalKey,
			"taproot output needs an internal key")
	}
	if tree == nil {
		return nil, scriptError(ErrEmptyTree,
			"taproot output needs a script tree")
	}
	if err := checkTree(tree); err != nil {
		return nil, err
	}

	innerKey := key
	if key.SerializeCompressed()[0] == secp.PubKeyFormatCompressedOdd {
		log.Debugf("Negating odd internal key %x",
			key.SerializeCompressed())
		innerKey = negatePubKey(key)
	}

	return &TapRoot{
		innerKey: innerKey,
		tree:     tree,
	}, nil
}

// negatePubKey returns -P.
func negatePubKey(key *btcec.PublicKey) *btcec.PublicKey {
	var point btcec.JacobianPoint
	key.AsJacobian(&point)
	point.Y.Negate(1).Normalize()

	return btcec.NewPublicKey(&point.X, &point.Y)
}

// InnerKey returns the even internal key.
func (r *TapRoot) InnerKey() *btcec.PublicKey {
	return r.innerKey
}

// InnerKeyXOnly returns the 32 byte x-only serialization of the internal key.
func (r *TapRoot) InnerKeyXOnly() [32]byte {
	var xOnly [32]byte
	copy(xOnly[:], schnorr.SerializePubKey(r.innerKey))
	return xOnly
}

// Tree returns the script tree committed to by the root.
func (r *TapRoot) Tree() Branch {
	return r.tree
}

// TapTweak returns h_taptweak(innerKey || treeHash).
func (r *TapRoot) TapTweak() chainhash.Hash {
	innerKey := r.InnerKeyXOnly()
	treeHash := r.tree.TapHash()

	return taghash.Sum(taghash.TagTapTweak, innerKey[:], treeHash[:])
}

// TweakedKey computes the output key:
//
//	outputKey = innerKey + (h_taptweak(innerKey || treeHash) * G)
//
// A tweak that is not a valid scalar, or a sum that lands on the point at
// infinity, returns ErrKeyTweak.
func (r *TapRoot) TweakedKey() (*btcec.PublicKey, error) {
	tweak := r.TapTweak()

	// With the tap tweak computed, we'll need to convert it into something
	// in the domain we can manipulate: a scalar value mod N.
	var tweakScalar btcec.ModNScalar
	if overflow := tweakScalar.SetBytes((*[32]byte)(&tweak)); overflow != 0 {
		str := fmt.Sprintf("tap tweak %x exceeds the curve order", tweak[:])
		return nil, scriptError(ErrKeyTweak, str)
	}

	// taprootKey = innerPoint + (tapTweak*G).
	var innerPoint, tweakPoint, taprootKey btcec.JacobianPoint
	r.innerKey.AsJacobian(&innerPoint)
	btcec.ScalarBaseMultNonConst(&tweakScalar, &tweakPoint)
	btcec.AddNonConst(&innerPoint, &tweakPoint, &taprootKey)

	if (taprootKey.X.IsZero() && taprootKey.Y.IsZero()) ||
		taprootKey.Z.IsZero() {

		return nil, scriptError(ErrKeyTweak, "tweaked key is the point "+
			"at infinity")
	}

	// Finally, we'll convert the key back to affine coordinates so we can
	// return the format of public key we usually use.
	taprootKey.ToAffine()

	return btcec.NewPublicKey(&taprootKey.X, &taprootKey.Y), nil
}

// TweakedKeyXOnly returns the x-only serialization of the output key.
func (r *TapRoot) TweakedKeyXOnly() ([32]byte, error) {
	var xOnly [32]byte

	key, err := r.TweakedKey()
	if err != nil {
		return xOnly, err
	}
	copy(xOnly[:], schnorr.SerializePubKey(key))

	return xOnly, nil
}

// TweakedKeyIsOdd reports whether the output key has an odd y coordinate.
func (r *TapRoot) TweakedKeyIsOdd() (bool, error) {
	key, err := r.TweakedKey()
	if err != nil {
		return false, err
	}

	return key.SerializeCompressed()[0] == secp.PubKeyFormatCompressedOdd,
		nil
}

// SPK returns the witness v1 output script paying to the output key:
//
//	OP_1 OP_DATA_32 <x-only output key>
func (r *TapRoot) SPK() ([]byte, error) {
	xOnly, err := r.TweakedKeyXOnly()
	if err != nil {
		return nil, err
	}

	spk := make([]byte, 0, taprootOutputScriptLen)
	spk = append(spk, btcscript.OP_1, btcscript.OP_DATA_32)
	return append(spk, xOnly[:]...), nil
}

// ControlBlock returns the serialized control block needed to spend the
// output through the passed leaf:
//
//	(leafVersion | outputKeyParity) || innerKey || siblingHashes
//
// with the sibling hashes ordered from the leaf up to the root.
func (r *TapRoot) ControlBlock(leaf TapLeaf) ([]byte, error) {
	if err := checkLeafScript(leaf.Script); err != nil {
		return nil, err
	}

	proof, ok := inclusionProof(r.tree, leaf.TapHash())
	if !ok {
		str := fmt.Sprintf("leaf %v is not committed to by the tree",
			leaf.TapHash())
		return nil, scriptError(ErrLeafNotFound, str)
	}

	yIsOdd, err := r.TweakedKeyIsOdd()
	if err != nil {
		return nil, err
	}

	// The first byte is a combination of the leaf version, using the
	// lowest bit to encode the single bit that denotes if the y
	// coordinate of the output key is odd.
	versionAndParity := byte(leaf.LeafVersion)
	if yIsOdd {
		versionAndParity |= 0x01
	}

	innerKey := r.InnerKeyXOnly()

	ctrl := make([]byte, 0, ControlBlockBaseSize+len(proof))
	ctrl = append(ctrl, versionAndParity)
	ctrl = append(ctrl, innerKey[:]...)
	return append(ctrl, proof...), nil
}
