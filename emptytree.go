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

// EmptyTree is the precomputed, canonical empty spine empty[0..=MaxHeight]:
// empty[MaxHeight] is the empty leaf, and empty[i] = Branch(empty[i+1],
// empty[i+1]) for i < MaxHeight. It is immutable and shared by every tree
// and store backend built over the same Hasher.
type EmptyTree struct {
	hasher Hasher
	nodes  []Node
}

// NewEmptyTree builds empty[0..=MaxHeight] for hasher, where MaxHeight =
// HashSize*8.
func NewEmptyTree(hasher Hasher) *EmptyTree {
	h := HashSize * 8
	nodes := make([]Node, h+1)
	nodes[h] = newEmptyLeafNode(hasher)
	for i := h - 1; i >= 0; i-- {
		nodes[i] = NewBranchNode(hasher, nodes[i+1], nodes[i+1])
	}
	return &EmptyTree{hasher: hasher, nodes: nodes}
}

// MaxHeight returns HashSize*8, the bit-length of a key and the number of
// levels below the root.
func (e *EmptyTree) MaxHeight() int { return len(e.nodes) - 1 }

// At returns the canonical empty node at height (0 == root level,
// MaxHeight == leaf level).
func (e *EmptyTree) At(height int) Node { return e.nodes[height] }

// Hasher returns the Hasher this spine was built with.
func (e *EmptyTree) Hasher() Hasher { return e.hasher }

// Root returns the empty tree's root branch, At(0) asserted to a
// *BranchNode (always valid: MaxHeight is always >= 1).
func (e *EmptyTree) Root() *BranchNode { return e.nodes[0].(*BranchNode) }
