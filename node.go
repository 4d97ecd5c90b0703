// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mssmt

import "encoding/binary"

// Node is the interface every tree node variant implements: a cached hash
// and a cached sum, both computed once at construction and never mutated.
type Node interface {
	NodeHash() NodeHash
	NodeSum() uint64
}

// sumBytes big-endian encodes sum, the wire shape every hash that commits
// to a sum uses.
func sumBytes(sum uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return b[:]
}

// LeafNode carries an opaque value and its sum. Its hash commits to
// value||sum_be.
type LeafNode struct {
	Value []byte
	Sum   uint64

	hash NodeHash
}

// NewLeafNode builds a LeafNode, computing and caching its hash.
func NewLeafNode(hasher Hasher, value []byte, sum uint64) *LeafNode {
	return &LeafNode{
		Value: value,
		Sum:   sum,
		hash:  hasher.Digest(value, sumBytes(sum)),
	}
}

func (l *LeafNode) NodeHash() NodeHash { return l.hash }
func (l *LeafNode) NodeSum() uint64    { return l.Sum }

// Copy returns a value copy of l, so a caller mutating the result never
// corrupts an instance shared with a store or another caller.
func (l *LeafNode) Copy() *LeafNode {
	v := make([]byte, len(l.Value))
	copy(v, l.Value)
	return &LeafNode{Value: v, Sum: l.Sum, hash: l.hash}
}

// newEmptyLeafNode is the canonical empty leaf: empty value, zero sum. Its
// hash is H(""||0_u64_be).
func newEmptyLeafNode(hasher Hasher) *LeafNode {
	return NewLeafNode(hasher, nil, 0)
}

// BranchNode caches the hash and sum of an interior node. Left and Right
// may be fully materialized subtrees or lightweight stand-ins carrying only
// a hash and a sum (see NewComputedNode) — NodeHash/NodeSum are all a
// BranchNode ever needs from a child.
type BranchNode struct {
	Left, Right Node

	hash NodeHash
	sum  uint64
}

// NewBranchNode builds a BranchNode over left and right, computing and
// caching its hash (H(left.hash||left.sum_be||right.hash||right.sum_be))
// and its sum (left.sum + right.sum). The sum add is only checked for
// overflow at the top-level Insert call, per the tree's contract — the
// precondition there makes overflow unreachable here.
func NewBranchNode(hasher Hasher, left, right Node) *BranchNode {
	lh, rh := left.NodeHash(), right.NodeHash()
	return &BranchNode{
		Left:  left,
		Right: right,
		hash:  hasher.Digest(lh[:], sumBytes(left.NodeSum()), rh[:], sumBytes(right.NodeSum())),
		sum:   left.NodeSum() + right.NodeSum(),
	}
}

func (b *BranchNode) NodeHash() NodeHash { return b.hash }
func (b *BranchNode) NodeSum() uint64    { return b.sum }

// computedNode is a Node stand-in for a child whose own children were not
// materialized — only its hash and sum are known, e.g. a sibling fetched
// from a store, or a branch's child as reconstructed from a persisted
// (leftHash, leftSum, rightHash, rightSum) record.
type computedNode struct {
	hash NodeHash
	sum  uint64
}

func (c *computedNode) NodeHash() NodeHash { return c.hash }
func (c *computedNode) NodeSum() uint64    { return c.sum }

// NewComputedNode returns a Node carrying only hash and sum, with no
// materialized children.
func NewComputedNode(hash NodeHash, sum uint64) Node {
	return &computedNode{hash: hash, sum: sum}
}

// NewComputedBranch reconstructs a BranchNode's cached hash and sum purely
// from its children's hash and sum. This is the shape every store backend
// loads a persisted branch record into.
func NewComputedBranch(hasher Hasher, leftHash NodeHash, leftSum uint64, rightHash NodeHash, rightSum uint64) *BranchNode {
	return NewBranchNode(hasher, NewComputedNode(leftHash, leftSum), NewComputedNode(rightHash, rightSum))
}

// CompactLeafNode represents a subtree rooted at Height whose only non-empty
// entry is Leaf at Key; every other leaf under it is empty. Its hash equals
// the hash of the full branch chain that would exist between Height and
// MaxHeight if the subtree were not collapsed.
type CompactLeafNode struct {
	Height int
	Key    NodeHash
	Leaf   *LeafNode

	hash NodeHash
}

// NewCompactLeafNode folds the branch chain a CompactLeaf stands in for,
// from MaxHeight up to height, caching only the resulting hash.
func NewCompactLeafNode(hasher Hasher, empty *EmptyTree, height int, key NodeHash, leaf *LeafNode) *CompactLeafNode {
	maxHeight := empty.MaxHeight()
	var cur Node = leaf
	for j := maxHeight - 1; j >= height; j-- {
		sibling := empty.At(j + 1)
		if bitIndex(j, key) == 0 {
			cur = NewBranchNode(hasher, cur, sibling)
		} else {
			cur = NewBranchNode(hasher, sibling, cur)
		}
	}
	return &CompactLeafNode{Height: height, Key: key, Leaf: leaf, hash: cur.NodeHash()}
}

func (c *CompactLeafNode) NodeHash() NodeHash { return c.hash }
func (c *CompactLeafNode) NodeSum() uint64    { return c.Leaf.Sum }

// ExtractAt rehydrates the single branch at height (c.Height <= height <
// MaxHeight) implied by c's folded chain. Its far child is the empty
// subtree at height+1; its near child is either the terminal Leaf, if
// height+1 == MaxHeight, or a CompactLeaf continuing one level deeper.
// Either side is chosen by bitIndex(height, c.Key).
func (c *CompactLeafNode) ExtractAt(hasher Hasher, empty *EmptyTree, height int) *BranchNode {
	nextHeight := height + 1
	var near Node
	if nextHeight == empty.MaxHeight() {
		near = c.Leaf
	} else {
		near = NewCompactLeafNode(hasher, empty, nextHeight, c.Key, c.Leaf)
	}
	sibling := empty.At(nextHeight)
	if bitIndex(height, c.Key) == 0 {
		return NewBranchNode(hasher, near, sibling)
	}
	return NewBranchNode(hasher, sibling, near)
}
